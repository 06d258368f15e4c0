package postgres

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// tableDDL devuelve el CREATE TABLE de la tabla pedida dentro de la migración inicial.
func tableDDL(t *testing.T, table string) string {
	t.Helper()
	raw, err := os.ReadFile("../../../migrations/001_init.sql")
	require.NoError(t, err)
	re := regexp.MustCompile(`(?s)CREATE TABLE ` + table + ` \((.*?)\n\);`)
	m := re.FindStringSubmatch(string(raw))
	require.Len(t, m, 2, "tabla %s", table)
	return m[1]
}

// checkValues extrae los literales de CHECK (<column> IN (...)).
func checkValues(t *testing.T, ddl, column string) []string {
	t.Helper()
	re := regexp.MustCompile(`CHECK \(` + column + ` IN \(([^)]*)\)\)`)
	m := re.FindStringSubmatch(ddl)
	require.Len(t, m, 2, "CHECK de %s", column)
	var out []string
	for _, v := range strings.Split(m[1], ",") {
		out = append(out, strings.Trim(strings.TrimSpace(v), "'"))
	}
	return out
}

// ─── shipments ───────────────────────────────────────────────────────────────

func TestSchema_ShipmentsRestringeEstadosYContenedores(t *testing.T) {
	ddl := tableDDL(t, "shipments")

	statuses := checkValues(t, ddl, "status")
	assert.ElementsMatch(t, []string{
		entity.ShipmentStatusPending, entity.ShipmentStatusReceived, entity.ShipmentStatusWarehouse,
		entity.ShipmentStatusInTransit, entity.ShipmentStatusArrived, entity.ShipmentStatusDelivered,
	}, statuses)
	for _, s := range statuses {
		assert.True(t, entity.ValidShipmentStatus(s), s)
	}
	assert.False(t, entity.ValidShipmentStatus("lost"))

	containers := checkValues(t, ddl, "container_type")
	assert.ElementsMatch(t, []string{entity.Container20ft, entity.Container40ft, entity.ContainerLCL}, containers)

	for _, col := range []string{"length_cm", "width_cm", "height_cm", "volume_cbm", "vehicle_type"} {
		assert.Contains(t, ddl, col)
	}
}

// ─── appointments ────────────────────────────────────────────────────────────

func TestSchema_AppointmentsRestringeEstados(t *testing.T) {
	statuses := checkValues(t, tableDDL(t, "appointments"), "status")
	assert.ElementsMatch(t, []string{
		entity.AppointmentStatusNew, entity.AppointmentStatusContacted, entity.AppointmentStatusClosed,
	}, statuses)
}
