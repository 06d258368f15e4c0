package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Logistica-api/internal/application/access"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// InviteTokenTTL vigencia de un token de invitación.
const InviteTokenTTL = 72 * time.Hour

var _ access.IdentityProvider = (*IdentityStore)(nil)

// IdentityStore proveedor de identidad sobre auth_users y auth_invite_tokens.
type IdentityStore struct {
	pool *pgxpool.Pool
	tx   *TxRunner
	cost int
}

// NewIdentityStore construye el proveedor. cost 0 usa bcrypt.DefaultCost.
func NewIdentityStore(pool *pgxpool.Pool, cost int) *IdentityStore {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &IdentityStore{pool: pool, tx: NewTxRunner(pool), cost: cost}
}

const principalColumns = `id, email, password_hash, created_at, updated_at`

func scanPrincipal(row pgx.Row) (*entity.Principal, error) {
	var p entity.Principal
	if err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// CreatePrincipal alta directa con contraseña. domain.ErrDuplicate si el email existe.
func (s *IdentityStore) CreatePrincipal(ctx context.Context, email, password string) (*entity.Principal, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	p := &entity.Principal{ID: uuid.New().String(), Email: email, PasswordHash: string(hash), CreatedAt: now, UpdatedAt: now}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO auth_users (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Email, p.PasswordHash, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("insert principal: %w", err)
	}
	return p, nil
}

// GetPrincipal devuelve (nil, nil) si el principal no existe.
func (s *IdentityStore) GetPrincipal(ctx context.Context, id string) (*entity.Principal, error) {
	if !validUUID(id) {
		return nil, nil
	}
	p, err := scanPrincipal(s.pool.QueryRow(ctx, `SELECT `+principalColumns+` FROM auth_users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get principal: %w", err)
	}
	return p, nil
}

func (s *IdentityStore) GetPrincipalByEmail(ctx context.Context, email string) (*entity.Principal, error) {
	p, err := scanPrincipal(s.pool.QueryRow(ctx, `SELECT `+principalColumns+` FROM auth_users WHERE email = $1`, email))
	if err != nil {
		return nil, fmt.Errorf("get principal by email: %w", err)
	}
	return p, nil
}

// Authenticate compara la contraseña con el hash. Sin credencial o con contraseña errónea
// devuelve domain.ErrUnauthenticated.
func (s *IdentityStore) Authenticate(ctx context.Context, email, password string) (*entity.Principal, error) {
	p, err := s.GetPrincipalByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.HasCredential() {
		return nil, domain.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

// InvitePrincipal crea el principal si no existe y emite un token de un solo uso.
func (s *IdentityStore) InvitePrincipal(ctx context.Context, email, redirectTo string, metadata map[string]string) (*access.InviteTicket, error) {
	if metadata == nil {
		metadata = map[string]string{}
	}
	var ticket *access.InviteTicket
	err := s.tx.Run(ctx, func(q Querier) error {
		now := time.Now()
		p, err := scanPrincipal(q.QueryRow(ctx, `
			INSERT INTO auth_users (id, email, created_at, updated_at)
			VALUES ($1, $2, $3, $3)
			ON CONFLICT (email) DO UPDATE SET updated_at = auth_users.updated_at
			RETURNING `+principalColumns,
			uuid.New().String(), email, now,
		))
		if err != nil {
			return fmt.Errorf("upsert principal: %w", err)
		}
		token := uuid.New().String()
		exp := now.Add(InviteTokenTTL)
		if _, err := q.Exec(ctx, `
			INSERT INTO auth_invite_tokens (token, user_id, redirect_to, metadata, expires_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			token, p.ID, redirectTo, metadata, exp, now,
		); err != nil {
			return fmt.Errorf("insert invite token: %w", err)
		}
		ticket = &access.InviteTicket{Principal: p, Token: token, ExpiresAt: exp}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// RedeemInvitation consume el token y fija la contraseña en la misma transacción.
func (s *IdentityStore) RedeemInvitation(ctx context.Context, token, password string) (*entity.Principal, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	var out *entity.Principal
	err = s.tx.Run(ctx, func(q Querier) error {
		var userID string
		err := q.QueryRow(ctx, `
			DELETE FROM auth_invite_tokens
			WHERE token = $1 AND expires_at > now()
			RETURNING user_id`, token).Scan(&userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrUnauthenticated
			}
			return fmt.Errorf("consume invite token: %w", err)
		}
		p, err := scanPrincipal(q.QueryRow(ctx, `
			UPDATE auth_users SET password_hash = $2, updated_at = now()
			WHERE id = $1
			RETURNING `+principalColumns, userID, string(hash)))
		if err != nil {
			return fmt.Errorf("set password: %w", err)
		}
		if p == nil {
			return domain.ErrUnauthenticated
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeletePrincipal borra el principal y sus tokens (cascade). domain.ErrNotFound si no existe.
func (s *IdentityStore) DeletePrincipal(ctx context.Context, id string) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM auth_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete principal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *IdentityStore) UpdateCredential(ctx context.Context, id, password string) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE auth_users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, string(hash))
	if err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
