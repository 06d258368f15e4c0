// seed crea el primer administrador directamente contra la base configurada
// (misma regla que POST /api/auth/bootstrap: solo mientras no exista ningún admin).
//
// Uso: SEED_ADMIN_PASSWORD=... go run ./cmd/seed admin@empresa.com "Nombre Apellido"
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/events"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Logistica-api/pkg/config"
	"github.com/jhoicas/Logistica-api/pkg/logger"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "uso: seed <email> <nombre completo>")
		os.Exit(2)
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_PASSWORD es obligatorio")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: cfg.App.Name + "-seed"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	identity := postgres.NewIdentityStore(pool, bcrypt.DefaultCost)
	roles := postgres.NewRoleRepository(pool)
	profiles := postgres.NewProfileRepository(pool)
	authz := access.NewAuthorizer(identity, roles, profiles, log.Component("authorizer"))
	authUC := access.NewAuthUseCase(identity, roles, profiles, authz, events.NewInProcessBus(), access.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("seed"))

	me, err := authUC.CreateDirect(ctx, nil, dto.CreateDirectRequest{
		Email:    os.Args[1],
		Password: password,
		FullName: os.Args[2],
		Role:     entity.RoleAdmin.String(),
	})
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		log.Warn().Msg("ya existe un administrador; use POST /api/auth/bootstrap con un token de admin")
		os.Exit(1)
	case err != nil:
		log.Fatal().Err(err).Msg("crear administrador")
	}
	log.Info().Str("user_id", me.UserID).Str("email", me.Email).Msg("administrador creado")
}
