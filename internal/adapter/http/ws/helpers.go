package wshandler

import (
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	ws "github.com/Temutjin2k/studylens-dashboard/pkg/wsHub"
)

// ErrorResponse sends an error frame to one connection.
func ErrorResponse(conn *ws.Conn, message string) error {
	return conn.Send(models.FeedMessage{
		Type:    models.FeedMessageError,
		Message: message,
	})
}
