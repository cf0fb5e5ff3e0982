package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mamadbah2/boutique/internal/config"
	"github.com/mamadbah2/boutique/internal/domain/models"
	"github.com/mamadbah2/boutique/internal/service/catalog"
	"github.com/mamadbah2/boutique/internal/service/commands"
	client "github.com/mamadbah2/boutique/pkg/clients/whatsapp"
)

type fakeClient struct {
	sent []client.SendTextMessageRequest
	err  error
}

func (f *fakeClient) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, req)
	return &client.SendTextMessageResponse{}, nil
}

type fakeDispatcher struct {
	reply string
	err   error
	seen  []models.Command
}

func (f *fakeDispatcher) HandleCommand(_ context.Context, cmd models.Command, _ string) (string, error) {
	f.seen = append(f.seen, cmd)
	return f.reply, f.err
}

func newTestService(dispatcher *fakeDispatcher) (*MetaWhatsAppService, *fakeClient) {
	fc := &fakeClient{}
	cfg := config.WhatsAppConfig{VerifyToken: "verify-me", OwnerID: "201000000000"}
	return NewMetaWhatsAppService(cfg, NewNotifier(fc, nil), dispatcher, nil), fc
}

func textPayload(from string, bodies ...string) models.WebhookPayload {
	var msgs []models.InboundMessage
	for i, b := range bodies {
		msgs = append(msgs, models.InboundMessage{
			From: from,
			ID:   fmt.Sprintf("wamid.%d", i),
			Type: "text",
			Text: &models.TextContent{Body: b},
		})
	}
	return models.WebhookPayload{Entry: []models.WebhookEntry{{Changes: []models.WebhookChange{{Value: models.WebhookValue{Messages: msgs}}}}}}
}

func TestVerifyWebhookToken(t *testing.T) {
	svc, _ := newTestService(&fakeDispatcher{})

	tests := []struct {
		name    string
		mode    string
		token   string
		wantErr bool
	}{
		{"valid", "subscribe", "verify-me", false},
		{"mode is case insensitive", "SUBSCRIBE", "verify-me", false},
		{"wrong token", "subscribe", "nope", true},
		{"wrong mode", "unsubscribe", "verify-me", true},
		{"missing", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.VerifyWebhookToken(tt.mode, tt.token, "challenge-42")
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != "challenge-42" {
				t.Errorf("challenge = %q", got)
			}
		})
	}
}

func TestHandleWebhook_RepliesToOwner(t *testing.T) {
	dispatcher := &fakeDispatcher{reply: "Stock check: ok"}
	svc, fc := newTestService(dispatcher)

	if err := svc.HandleWebhook(context.Background(), textPayload("201000000000", "/stock")); err != nil {
		t.Fatal(err)
	}

	if len(dispatcher.seen) != 1 || dispatcher.seen[0].Type != models.CommandStock {
		t.Fatalf("dispatched = %+v", dispatcher.seen)
	}
	if len(fc.sent) != 1 || fc.sent[0].To != "201000000000" || fc.sent[0].Body != "Stock check: ok" {
		t.Errorf("sent = %+v", fc.sent)
	}
}

func TestHandleWebhook_ButtonReply(t *testing.T) {
	dispatcher := &fakeDispatcher{reply: "sales"}
	svc, _ := newTestService(dispatcher)

	payload := textPayload("201000000000")
	payload.Entry[0].Changes[0].Value.Messages = []models.InboundMessage{{
		From:        "201000000000",
		Type:        "interactive",
		Interactive: &models.InteractiveContent{ButtonReply: &models.ButtonReply{ID: "/sales"}},
	}}

	if err := svc.HandleWebhook(context.Background(), payload); err != nil {
		t.Fatal(err)
	}
	if len(dispatcher.seen) != 1 || dispatcher.seen[0].Type != models.CommandSales {
		t.Errorf("dispatched = %+v", dispatcher.seen)
	}
}

func TestHandleWebhook_IgnoresStrangersAndEmptyBodies(t *testing.T) {
	dispatcher := &fakeDispatcher{reply: "x"}
	svc, fc := newTestService(dispatcher)
	ctx := context.Background()

	if err := svc.HandleWebhook(ctx, textPayload("209999999999", "/sales")); err != nil {
		t.Fatal(err)
	}
	if err := svc.HandleWebhook(ctx, textPayload("201000000000", "")); err != nil {
		t.Fatal(err)
	}
	if err := svc.HandleWebhook(ctx, models.WebhookPayload{}); err != nil {
		t.Fatal(err)
	}

	if len(dispatcher.seen) != 0 || len(fc.sent) != 0 {
		t.Errorf("dispatched %d, sent %d", len(dispatcher.seen), len(fc.sent))
	}
}

func TestHandleWebhook_ErrorReplies(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"bad arguments", commands.ErrInvalidArguments, "Could not read /reorder. Example: /reorder 1234567892"},
		{"unknown barcode", fmt.Errorf("reorder 1: %w", catalog.ErrProductNotFound), "No product matches that barcode."},
		{"other", errors.New("boom"), "Sorry, that command failed. Please try again later."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, fc := newTestService(&fakeDispatcher{err: tt.err})
			if err := svc.HandleWebhook(context.Background(), textPayload("201000000000", "/reorder")); err != nil {
				t.Fatal(err)
			}
			if len(fc.sent) != 1 || fc.sent[0].Body != tt.want {
				t.Errorf("sent = %+v", fc.sent)
			}
		})
	}
}

func TestHandleWebhook_ReturnsFirstSendError(t *testing.T) {
	svc, fc := newTestService(&fakeDispatcher{reply: "ok"})
	fc.err = errors.New("rate limited")

	err := svc.HandleWebhook(context.Background(), textPayload("201000000000", "/stock", "/sales"))
	if !errors.Is(err, fc.err) {
		t.Errorf("error = %v", err)
	}
}

func TestNotifyAndSendOutbound(t *testing.T) {
	svc, fc := newTestService(&fakeDispatcher{})
	ctx := context.Background()

	if err := svc.out.Notify(ctx, "supplier", "Reorder request"); err != nil {
		t.Fatal(err)
	}
	if err := svc.SendOutbound(ctx, models.OutboundMessageRequest{To: "owner", Message: "see https://x", PreviewURL: true}); err != nil {
		t.Fatal(err)
	}

	if len(fc.sent) != 2 || fc.sent[0].To != "supplier" || fc.sent[0].PreviewURL || !fc.sent[1].PreviewURL {
		t.Errorf("sent = %+v", fc.sent)
	}
}

func TestHandleWebhook_RedeliveryDoesNotRepeatCommand(t *testing.T) {
	dispatcher := &fakeDispatcher{reply: "Reorder sent"}
	svc, fc := newTestService(dispatcher)
	fc.err = errors.New("owner unreachable")
	payload := textPayload("201000000000", "/reorder 1234567892")

	if err := svc.HandleWebhook(context.Background(), payload); err == nil {
		t.Fatal("expected the failed reply to surface")
	}
	if err := svc.HandleWebhook(context.Background(), payload); err != nil {
		t.Fatalf("redelivery error = %v", err)
	}

	if len(dispatcher.seen) != 1 {
		t.Errorf("command ran %d times, want 1", len(dispatcher.seen))
	}
}

func TestMessageLog(t *testing.T) {
	log := newMessageLog(2)

	if !log.claim("a") || log.claim("a") {
		t.Fatal("claim should accept a new ID once")
	}
	if !log.claim("") || !log.claim("") {
		t.Error("empty IDs are never deduplicated")
	}
	log.claim("b")
	log.claim("c") // evicts a
	if !log.claim("a") {
		t.Error("oldest ID should have been evicted")
	}
	if log.claim("c") {
		t.Error("recent ID should still be remembered")
	}
}
