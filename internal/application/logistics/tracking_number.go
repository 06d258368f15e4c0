package logistics

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// TrackingPrefix código de transportista de todos los números de seguimiento.
const TrackingPrefix = "GBRS"

const trackingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// TrackingNumberGenerator produce números de seguimiento candidatos.
// La unicidad la garantiza la restricción única de la base.
type TrackingNumberGenerator func() string

// NewTrackingNumber GBRS + últimos 6 dígitos del timestamp en ms + 3 alfanuméricos.
func NewTrackingNumber() string {
	return trackingNumberAt(time.Now())
}

func trackingNumberAt(t time.Time) string {
	// +1e6 fija el ancho en 7 dígitos; el primero se descarta
	ms := strconv.FormatInt(t.UnixMilli()%1_000_000+1_000_000, 10)
	var b strings.Builder
	b.WriteString(TrackingPrefix)
	b.WriteString(ms[1:])
	for i := 0; i < 3; i++ {
		b.WriteByte(trackingAlphabet[rand.Intn(len(trackingAlphabet))])
	}
	return b.String()
}
