package ingest

import (
	"context"
	netmail "net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/supportdesk/inquiry-service/internal/config"
	"github.com/supportdesk/inquiry-service/internal/domain"
	"github.com/supportdesk/inquiry-service/internal/mail"
	"github.com/supportdesk/inquiry-service/internal/service"
)

const missingSubject = "(no subject)"

// InquiryCreator is the slice of the inquiry service the processor needs.
type InquiryCreator interface {
	Create(ctx context.Context, input service.InquiryCreateInput) (*domain.Inquiry, error)
}

// Processor converts polled mailbox messages into inquiry creation commands.
// Each message is handled independently: one bad message never stops the
// rest of the batch.
type Processor struct {
	fetcher   mail.Fetcher
	inquiries InquiryCreator
	blacklist []string
	limit     int
	logger    *zap.Logger
}

// NewProcessor builds a processor from the mail configuration.
func NewProcessor(fetcher mail.Fetcher, inquiries InquiryCreator, cfg config.MailConfig, logger *zap.Logger) *Processor {
	limit := cfg.FetchLimit
	if limit <= 0 {
		limit = 10
	}
	return &Processor{
		fetcher:   fetcher,
		inquiries: inquiries,
		blacklist: cfg.BlacklistedDomains(),
		limit:     limit,
		logger:    logger,
	}
}

// Run fetches one batch of unread mail and creates inquiries for messages
// from senders that are not blacklisted.
func (p *Processor) Run(ctx context.Context) {
	messages, err := p.fetcher.FetchUnread(ctx, p.limit)
	if err != nil {
		p.logger.Error("mailbox fetch failed", zap.Error(err))
		return
	}
	for _, msg := range messages {
		p.processOne(ctx, msg)
	}
}

func (p *Processor) processOne(ctx context.Context, msg mail.RawMessage) {
	name, address := parseSender(msg.From)
	if address == "" {
		p.logger.Warn("skipping message without a parseable sender", zap.String("from", msg.From))
		return
	}

	if domainPart := addressDomain(address); domainPart != "" && p.isBlacklisted(domainPart) {
		p.logger.Warn("skipping blacklisted sender domain",
			zap.String("domain", domainPart),
			zap.String("address", address))
		return
	}

	title := msg.Subject
	if title == "" {
		title = missingSubject
	}
	content := msg.Text
	if content == "" {
		content = msg.HTML
	}

	input := service.InquiryCreateInput{
		Title:         title,
		Content:       content,
		CustomerEmail: address,
	}
	if name != "" {
		input.CustomerName = &name
	}

	if _, err := p.inquiries.Create(ctx, input); err != nil {
		p.logger.Error("failed to create inquiry from email",
			zap.String("address", address),
			zap.Error(err))
	}
}

func (p *Processor) isBlacklisted(domainPart string) bool {
	for _, entry := range p.blacklist {
		if entry == domainPart {
			return true
		}
	}
	return false
}

func parseSender(raw string) (name, address string) {
	parsed, err := netmail.ParseAddress(raw)
	if err != nil {
		return "", ""
	}
	return parsed.Name, strings.TrimSpace(parsed.Address)
}

func addressDomain(address string) string {
	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return ""
	}
	return strings.ToLower(address[at+1:])
}
