package pool

import (
	"container/heap"
	"errors"
	"gridtactics/internal/domain"
	"gridtactics/pkg/logger"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrPoolExhausted - для ключа уже выдано capacity живых хэндлов
var ErrPoolExhausted = errors.New("effect pool exhausted")

// Handle - экземпляр эффекта, выданный пулом
type Handle struct {
	Key       string          `json:"key"`
	At        domain.Position `json:"at"`
	Seq       uint64          `json:"seq"`
	SpawnedAt time.Duration   `json:"spawnedAt"`
	ExpiresAt time.Duration   `json:"expiresAt"`

	live  bool
	index int // позиция в expiryQueue, -1 если не в очереди
}

// Live - хэндл выдан и еще не возвращен
func (h *Handle) Live() bool { return h.live }

// EffectPool - ограниченный пул эффектов с очередью свободных хэндлов на ключ.
// Время - симуляционное, его передает вызывающий.
// Не безопасен для конкурентного доступа, живет в горутине инстанса.
type EffectPool struct {
	capacity int
	free     map[string][]*Handle
	inUse    map[string]int
	expiry   expiryQueue
	seq      uint64
	log      *logrus.Entry
}

// NewEffectPool создает пул. capacity < 1 заменяется на domain.DefaultEffectPoolCapacity.
func NewEffectPool(capacity int) *EffectPool {
	if capacity < 1 {
		capacity = domain.DefaultEffectPoolCapacity
	}
	return &EffectPool{
		capacity: capacity,
		free:     make(map[string][]*Handle),
		inUse:    make(map[string]int),
		expiry:   make(expiryQueue, 0),
		log:      logger.Log.WithField("component", "effect_pool"),
	}
}

// Acquire выдает хэндл эффекта key в клетке at, живущий ttl от now.
// ttl <= 0 значит "живет до явного Release".
func (p *EffectPool) Acquire(key string, at domain.Position, now, ttl time.Duration) (*Handle, error) {
	if p.inUse[key] >= p.capacity {
		p.log.WithFields(logrus.Fields{"key": key, "capacity": p.capacity}).Warn("Effect pool exhausted")
		return nil, ErrPoolExhausted
	}

	var h *Handle
	if queue := p.free[key]; len(queue) > 0 {
		h = queue[0]
		queue[0] = nil
		p.free[key] = queue[1:]
	} else {
		h = &Handle{Key: key, index: -1}
	}

	p.seq++
	h.Seq = p.seq
	h.At = at
	h.SpawnedAt = now
	h.ExpiresAt = 0
	h.live = true
	p.inUse[key]++

	if ttl > 0 {
		h.ExpiresAt = now + ttl
		heap.Push(&p.expiry, h)
	}
	return h, nil
}

// Release возвращает хэндл в очередь своего ключа. Повторный Release игнорируется.
func (p *EffectPool) Release(h *Handle) {
	if h == nil || !h.live {
		return
	}
	if h.index >= 0 {
		heap.Remove(&p.expiry, h.index)
	}
	h.live = false
	p.inUse[h.Key]--
	p.free[h.Key] = append(p.free[h.Key], h)
}

// Extend продлевает жизнь живого хэндла до at
func (p *EffectPool) Extend(h *Handle, at time.Duration) {
	if h == nil || !h.live {
		return
	}
	if h.index < 0 {
		h.ExpiresAt = at
		heap.Push(&p.expiry, h)
		return
	}
	p.expiry.reschedule(h, at)
}

// Expire возвращает в пул все хэндлы с ExpiresAt <= now, в порядке истечения.
func (p *EffectPool) Expire(now time.Duration) []*Handle {
	var released []*Handle
	for {
		h := p.expiry.peek()
		if h == nil || h.ExpiresAt > now {
			break
		}
		heap.Pop(&p.expiry)
		h.live = false
		p.inUse[h.Key]--
		p.free[h.Key] = append(p.free[h.Key], h)
		released = append(released, h)
	}
	return released
}

// Active - живые хэндлы с таймером, по порядку выдачи
func (p *EffectPool) Active() []*Handle {
	out := make([]*Handle, len(p.expiry))
	copy(out, p.expiry)
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// InUse - сколько хэндлов ключа сейчас выдано
func (p *EffectPool) InUse(key string) int {
	return p.inUse[key]
}

// Idle - сколько хэндлов ключа ждут повторного использования
func (p *EffectPool) Idle(key string) int {
	return len(p.free[key])
}

// Capacity - лимит живых хэндлов на ключ
func (p *EffectPool) Capacity() int {
	return p.capacity
}
