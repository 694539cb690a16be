package network

import (
	"gridtactics/pkg/api"
	"gridtactics/pkg/logger"
	"sync"
)

// Broadcaster занимается только рассылкой сообщений подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ключ сущности -> Личный канал
	subscribers map[string]chan api.ServerResponse
	buffer      int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerResponse),
		buffer:      100,
	}
}

// Register создает личный канал для сущности
func (b *Broadcaster) Register(key string) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем: старое соединение вытесняется
	if old, ok := b.subscribers[key]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, b.buffer)
	b.subscribers[key] = ch
	return ch
}

// Unregister удаляет подписчика, но только если это все еще его канал
func (b *Broadcaster) Unregister(key string, ch chan api.ServerResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cur, ok := b.subscribers[key]; ok && cur == ch {
		close(cur)
		delete(b.subscribers, key)
	}
}

// SendTo отправляет сообщение конкретному ключу (Unicast).
// Медленный клиент теряет кадр, а не тормозит симуляцию.
func (b *Broadcaster) SendTo(key string, msg api.ServerResponse) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subscribers[key]
	if !ok {
		return false
	}
	select {
	case ch <- msg:
		return true
	default:
		logger.Log.WithField("component", "hub").WithField("key", key).Debug("Channel full, frame dropped")
		return false
	}
}

// HasSubscriber проверяет, управляется ли сущность кем-то
func (b *Broadcaster) HasSubscriber(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[key]
	return ok
}

// Keys - ключи всех подписчиков
func (b *Broadcaster) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.subscribers))
	for k := range b.subscribers {
		keys = append(keys, k)
	}
	return keys
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
