package create_reservation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/BNP-ReservationService/internal/domain"
)

const humanCodeLength = 6

// newHumanCode генерирует короткий человекочитаемый код резервации,
// например "SA-3F9A1C" или "LI-0B42DE"
func newHumanCode(kind domain.ResourceKind) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s", kind.CodePrefix(), strings.ToUpper(hex[:humanCodeLength]))
}

// newToken генерирует неугадываемый токен для check-in
func newToken() string {
	return uuid.NewString()
}
