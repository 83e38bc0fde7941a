package mailer

import (
	"context"
	"sync"

	"github.com/aulalink/lms-service/internal/utils"
)

// ConsoleEmailService logs messages instead of delivering them. Used in
// development and as the test double.
type ConsoleEmailService struct {
	logger utils.Logger

	mu   sync.Mutex
	sent []*Message
}

var _ EmailService = (*ConsoleEmailService)(nil)

func NewConsoleEmailService(logger utils.Logger) *ConsoleEmailService {
	return &ConsoleEmailService{logger: logger}
}

func (svc *ConsoleEmailService) Send(ctx context.Context, msg *Message) error {
	svc.mu.Lock()
	svc.sent = append(svc.sent, msg)
	svc.mu.Unlock()

	svc.logger.Info("email (console)",
		"to", msg.To.Address,
		"subject", msg.Subject,
		"body", msg.TextContent,
	)
	return nil
}

// Sent returns a copy of the delivered messages, for tests.
func (svc *ConsoleEmailService) Sent() []*Message {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	out := make([]*Message, len(svc.sent))
	copy(out, svc.sent)
	return out
}
