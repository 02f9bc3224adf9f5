package sales

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultOrderPrefix prefijo de los números de pedido.
const DefaultOrderPrefix = "ORD"

// MonthPrefix devuelve "PREFIJO-YYYYMM-" para el mes de t (en la zona horaria de t).
func MonthPrefix(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%04d%02d-", prefix, t.Year(), int(t.Month()))
}

// FormatNumber arma el número completo; el consecutivo se rellena a 4 dígitos
// y crece sin truncar por encima de 9999.
func FormatNumber(monthPrefix string, seq int) string {
	return fmt.Sprintf("%s%04d", monthPrefix, seq)
}

// ParseSequence extrae el consecutivo numérico de un número con el prefijo de mes dado.
func ParseSequence(monthPrefix, number string) (int, bool) {
	if !strings.HasPrefix(number, monthPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(number[len(monthPrefix):])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// NextNumber devuelve el siguiente número a partir del mayor consecutivo existente del mes (0 si no hay).
func NextNumber(monthPrefix string, lastSeq int) string {
	return FormatNumber(monthPrefix, lastSeq+1)
}
