package mail

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	gomessage "github.com/emersion/go-message/mail"
	"go.uber.org/zap"

	"github.com/supportdesk/inquiry-service/internal/config"
)

type imapFetcher struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewIMAPFetcher builds a fetcher that logs into the configured IMAP server
// for each poll. Fetching the body section marks messages as seen, so a
// message is only ever handed to the ingestion pipeline once.
func NewIMAPFetcher(cfg config.MailConfig, logger *zap.Logger) Fetcher {
	return &imapFetcher{cfg: cfg, logger: logger}
}

func (f *imapFetcher) FetchUnread(ctx context.Context, limit int) ([]RawMessage, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("fetch limit must be positive, got %d", limit)
	}

	addr := fmt.Sprintf("%s:%d", f.cfg.IMAPHost, f.cfg.IMAPPort)
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial imap %s: %w", addr, err)
	}
	defer c.Logout() //nolint:errcheck

	if err := c.Login(f.cfg.Account, f.cfg.Password); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}
	if _, err := c.Select(f.cfg.IMAPFolder, false); err != nil {
		return nil, fmt.Errorf("select folder %s: %w", f.cfg.IMAPFolder, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("search unseen: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem()}
	messages := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	var result []RawMessage
	for msg := range messages {
		raw, err := f.decode(msg, section)
		if err != nil {
			f.logger.Warn("skipping undecodable message", zap.Error(err))
			continue
		}
		result = append(result, raw)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	return result, nil
}

func (f *imapFetcher) decode(msg *imap.Message, section *imap.BodySectionName) (RawMessage, error) {
	body := msg.GetBody(section)
	if body == nil {
		return RawMessage{}, fmt.Errorf("message %d has no body section", msg.SeqNum)
	}

	reader, err := gomessage.CreateReader(body)
	if err != nil {
		return RawMessage{}, fmt.Errorf("parse message %d: %w", msg.SeqNum, err)
	}

	raw := RawMessage{From: reader.Header.Get("From")}
	if subject, err := reader.Header.Subject(); err == nil {
		raw.Subject = subject
	}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		header, ok := part.Header.(*gomessage.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}
		content, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}
		switch strings.ToLower(contentType) {
		case "text/plain":
			if raw.Text == "" {
				raw.Text = string(content)
			}
		case "text/html":
			if raw.HTML == "" {
				raw.HTML = string(content)
			}
		}
	}
	return raw, nil
}
