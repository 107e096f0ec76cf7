package ws

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fitcoach-app/fitcoach-backend/internal/goroutine"
	"github.com/fitcoach-app/fitcoach-backend/internal/logger"
)

// Hub хранит активные WebSocket подключения, по одному на пользователя.
// Новое подключение того же пользователя вытесняет предыдущее.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*Client),
	}
}

// Register добавляет клиента. Если у пользователя уже есть подключение,
// старое закрывается и заменяется новым.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	previous := h.clients[client.userID]
	h.clients[client.userID] = client
	h.mu.Unlock()

	if previous != nil && previous != client {
		previous.close()
	}
}

// Unregister удаляет клиента. Запись удаляется только если она всё ещё
// принадлежит этому клиенту: отключение вытесненного подключения не должно
// снести актуальное.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if h.clients[client.userID] == client {
		delete(h.clients, client.userID)
	}
	h.mu.Unlock()
}

// Lookup возвращает активное подключение пользователя, если оно есть.
func (h *Hub) Lookup(userID uuid.UUID) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[userID]
	return client, ok
}

// IsConnected сообщает, есть ли у пользователя активное подключение.
func (h *Hub) IsConnected(userID uuid.UUID) bool {
	_, ok := h.Lookup(userID)
	return ok
}

// ConnectedCount возвращает число активных подключений.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Push отправляет событие пользователю, если он подключён.
// Возвращает ошибку, когда подключения нет или буфер отправки переполнен.
func (h *Hub) Push(userID uuid.UUID, event string, data any) error {
	// Сообщение для клиента строго следует контракту WebSocket API:
	// поле "type" содержит имя события, "data" — полезную нагрузку.
	payload := map[string]any{
		"type": event,
		"data": data,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	// Блокировка держится на время записи: close клиента сначала снимает
	// регистрацию (берёт write-блокировку), поэтому найденный здесь канал
	// гарантированно ещё не закрыт.
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[userID]
	if !ok {
		return fmt.Errorf("ws: пользователь %s не подключён", userID)
	}

	select {
	case client.send <- raw:
		return nil
	default:
		// Клиент не успевает читать, разрываем подключение
		logger.Log.WithField("user_id", userID).Warn("ws: буфер отправки переполнен, закрываем подключение")
		goroutine.SafeGo(client.close)
		return fmt.Errorf("ws: буфер отправки пользователя %s переполнен", userID)
	}
}
