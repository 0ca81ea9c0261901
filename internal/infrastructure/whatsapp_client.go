package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"go.uber.org/zap"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// zapWALogger adapts zap to the whatsmeow logger interface.
type zapWALogger struct {
	s *zap.SugaredLogger
}

func newWALogger(l *zap.Logger, module string) waLog.Logger {
	return zapWALogger{s: l.Named(module).Sugar()}
}

func (z zapWALogger) Warnf(msg string, args ...interface{})  { z.s.Warnf(msg, args...) }
func (z zapWALogger) Errorf(msg string, args ...interface{}) { z.s.Errorf(msg, args...) }
func (z zapWALogger) Infof(msg string, args ...interface{})  { z.s.Infof(msg, args...) }
func (z zapWALogger) Debugf(msg string, args ...interface{}) { z.s.Debugf(msg, args...) }
func (z zapWALogger) Sub(module string) waLog.Logger {
	return zapWALogger{s: z.s.Named(module)}
}

// WhatsAppClient is one tenant's linked WhatsApp device.
type WhatsAppClient struct {
	Client   *whatsmeow.Client
	ClientID string

	log    *zap.Logger
	qrCode string
	qrLock sync.RWMutex
}

func NewWhatsAppClient(ctx context.Context, dbPath, clientID string, log *zap.Logger) (*WhatsAppClient, error) {
	log = log.With(zap.String("client_id", clientID))
	container, err := sqlstore.New(ctx, "sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)", newWALogger(log, "wa_db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open device store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return &WhatsAppClient{
		Client:   whatsmeow.NewClient(deviceStore, newWALogger(log, "wa_client")),
		ClientID: clientID,
		log:      log,
	}, nil
}

// Connect opens the websocket. Unpaired devices start publishing QR codes
// readable through GetQR.
func (w *WhatsAppClient) Connect() error {
	if w.Client.Store.ID != nil {
		if err := w.Client.Connect(); err != nil {
			return err
		}
		w.log.Info("WhatsApp connected with existing session")
		return nil
	}

	qrChan, err := w.Client.GetQRChannel(context.Background())
	if err != nil {
		return fmt.Errorf("qr channel: %w", err)
	}
	if err := w.Client.Connect(); err != nil {
		return err
	}
	go w.watchQR(qrChan)
	return nil
}

func (w *WhatsAppClient) watchQR(qrChan <-chan whatsmeow.QRChannelItem) {
	for evt := range qrChan {
		if evt.Event == whatsmeow.QRChannelEventCode {
			w.setQR(evt.Code)
			w.log.Debug("New WhatsApp QR code")
			continue
		}
		w.setQR("")
		w.log.Info("WhatsApp login event", zap.String("event", evt.Event))
	}
}

func (w *WhatsAppClient) setQR(code string) {
	w.qrLock.Lock()
	w.qrCode = code
	w.qrLock.Unlock()
}

func (w *WhatsAppClient) GetQR() string {
	w.qrLock.RLock()
	defer w.qrLock.RUnlock()
	return w.qrCode
}

func (w *WhatsAppClient) IsLoggedIn() bool {
	return w.Client.Store.ID != nil
}

// IsConnected returns true if the socket is up and the device is paired.
func (w *WhatsAppClient) IsConnected() bool {
	return w.Client.IsConnected() && w.Client.Store.ID != nil
}

// GetUserInfo returns the paired phone number and push name.
func (w *WhatsAppClient) GetUserInfo() (string, string) {
	if w.Client.Store.ID == nil {
		return "", ""
	}
	return w.Client.Store.ID.User, w.Client.Store.PushName
}

func (w *WhatsAppClient) Disconnect() {
	w.Client.Disconnect()
}

func (w *WhatsAppClient) AddHandler(handler func(interface{})) {
	w.Client.AddEventHandler(handler)
}

func (w *WhatsAppClient) SendMessage(ctx context.Context, to string, content string) error {
	jid, err := types.ParseJID(to + "@" + types.DefaultUserServer)
	if err != nil {
		return fmt.Errorf("invalid number format: %w", err)
	}
	_, err = w.Client.SendMessage(ctx, jid, &waProto.Message{
		Conversation: &content,
	})
	return err
}

// ParseMessage extracts sender phone, push name and text of a 1:1 text
// message. ok is false for groups, own messages and non-text payloads.
func ParseMessage(evt *events.Message) (phone, name, content string, ok bool) {
	if evt == nil || evt.Message == nil || evt.Info.IsFromMe || evt.Info.IsGroup {
		return "", "", "", false
	}
	if evt.Info.Chat.Server != types.DefaultUserServer && evt.Info.Chat.Server != types.HiddenUserServer {
		return "", "", "", false
	}

	switch {
	case evt.Message.GetConversation() != "":
		content = evt.Message.GetConversation()
	case evt.Message.GetExtendedTextMessage().GetText() != "":
		content = evt.Message.GetExtendedTextMessage().GetText()
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", "", "", false
	}
	return evt.Info.Sender.User, evt.Info.PushName, content, true
}
