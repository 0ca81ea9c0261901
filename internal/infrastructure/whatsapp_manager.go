package infrastructure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"go.uber.org/zap"
)

// WhatsAppStatus is the device state shown on the dashboard.
type WhatsAppStatus struct {
	Connected bool   `json:"connected"`
	LoggedIn  bool   `json:"logged_in"`
	Phone     string `json:"phone,omitempty"`
	Name      string `json:"name,omitempty"`
	HasQR     bool   `json:"has_qr"`
}

// WhatsAppManager manages one WhatsApp device per tenant.
type WhatsAppManager struct {
	clients map[string]*WhatsAppClient
	mu      sync.RWMutex
	baseDir string
	log     *zap.Logger

	// HandlerFactory builds the event handler registered on new clients.
	HandlerFactory func(clientID string) func(interface{})
}

var _ interfaces.MessageSender = (*WhatsAppManager)(nil)

func NewWhatsAppManager(baseDir string, log *zap.Logger) (*WhatsAppManager, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create device dir: %w", err)
	}
	return &WhatsAppManager{
		clients: make(map[string]*WhatsAppClient),
		baseDir: baseDir,
		log:     log.Named("whatsapp"),
	}, nil
}

// GetClient returns the tenant's client or nil.
func (m *WhatsAppManager) GetClient(clientID string) *WhatsAppClient {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clients[clientID]
}

func (m *WhatsAppManager) GetOrCreateClient(ctx context.Context, clientID string) (*WhatsAppClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if client, exists := m.clients[clientID]; exists {
		return client, nil
	}

	dbPath := filepath.Join(m.baseDir, "client_"+clientID+".db")
	client, err := NewWhatsAppClient(ctx, dbPath, clientID, m.log)
	if err != nil {
		return nil, fmt.Errorf("failed to create WhatsApp client for %s: %w", clientID, err)
	}
	if m.HandlerFactory != nil {
		client.AddHandler(m.HandlerFactory(clientID))
	}

	m.clients[clientID] = client
	return client, nil
}

// ConnectClient connects the tenant's device, creating it if needed.
func (m *WhatsAppManager) ConnectClient(ctx context.Context, clientID string) (*WhatsAppClient, error) {
	client, err := m.GetOrCreateClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.Client.IsConnected() {
		return client, nil
	}
	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect WhatsApp for %s: %w", clientID, err)
	}
	return client, nil
}

// Status reports the tenant's device state.
func (m *WhatsAppManager) Status(clientID string) WhatsAppStatus {
	client := m.GetClient(clientID)
	if client == nil {
		return WhatsAppStatus{}
	}
	phone, name := client.GetUserInfo()
	return WhatsAppStatus{
		Connected: client.IsConnected(),
		LoggedIn:  client.IsLoggedIn(),
		Phone:     phone,
		Name:      name,
		HasQR:     client.GetQR() != "",
	}
}

// Connect connects the tenant's device and reports its state.
func (m *WhatsAppManager) Connect(ctx context.Context, clientID string) (WhatsAppStatus, error) {
	if _, err := m.ConnectClient(ctx, clientID); err != nil {
		return WhatsAppStatus{}, err
	}
	return m.Status(clientID), nil
}

// QRCode returns the pending pairing code, starting the pairing flow for an
// unpaired device. The code is empty while none is available yet.
func (m *WhatsAppManager) QRCode(ctx context.Context, clientID string) (code string, loggedIn bool, err error) {
	client, err := m.GetOrCreateClient(ctx, clientID)
	if err != nil {
		return "", false, err
	}
	if client.Client.Store.ID == nil && !client.IsConnected() {
		if err := client.Connect(); err != nil {
			return "", false, fmt.Errorf("failed to connect WhatsApp for %s: %w", clientID, err)
		}
	}
	return client.GetQR(), client.IsLoggedIn(), nil
}

// Devices reports every loaded device keyed by tenant.
func (m *WhatsAppManager) Devices() map[string]WhatsAppStatus {
	m.mu.RLock()
	ids := make([]string, 0, len(m.clients))
	for id := range m.clients {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	out := make(map[string]WhatsAppStatus, len(ids))
	for _, id := range ids {
		out[id] = m.Status(id)
	}
	return out
}

// LogoutClient unpairs the tenant's device. A missing client is not an error.
func (m *WhatsAppManager) LogoutClient(ctx context.Context, clientID string) error {
	m.mu.Lock()
	client, exists := m.clients[clientID]
	delete(m.clients, clientID)
	m.mu.Unlock()

	if !exists || client == nil {
		return nil
	}
	if !client.IsLoggedIn() {
		client.Disconnect()
		return nil
	}
	err := client.Client.Logout(ctx)
	client.Disconnect()
	return err
}

// SendText sends text from the tenant's paired device.
func (m *WhatsAppManager) SendText(ctx context.Context, clientID, phone, text string) error {
	client := m.GetClient(clientID)
	if client == nil || !client.IsConnected() {
		return fmt.Errorf("%w: WhatsApp is not connected", apperrors.ErrUnavailable)
	}
	return client.SendMessage(ctx, phone, text)
}

// ReconnectAll reconnects the paired devices found in the device dir.
func (m *WhatsAppManager) ReconnectAll(ctx context.Context) {
	matches, err := filepath.Glob(filepath.Join(m.baseDir, "client_*.db"))
	if err != nil {
		m.log.Warn("Scan device dir failed", zap.Error(err))
		return
	}
	for _, path := range matches {
		base := filepath.Base(path)
		clientID := base[len("client_") : len(base)-len(".db")]
		client, err := m.GetOrCreateClient(ctx, clientID)
		if err != nil {
			m.log.Warn("Restore device failed", zap.String("client_id", clientID), zap.Error(err))
			continue
		}
		if !client.IsLoggedIn() {
			continue
		}
		if err := client.Connect(); err != nil {
			m.log.Warn("Reconnect device failed", zap.String("client_id", clientID), zap.Error(err))
		}
	}
}

// DisconnectAll disconnects every client for shutdown.
func (m *WhatsAppManager) DisconnectAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, client := range m.clients {
		client.Disconnect()
	}
	m.clients = make(map[string]*WhatsAppClient)
}
