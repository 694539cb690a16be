package engine

import (
	"errors"
	"gridtactics/internal/domain"
)

// ErrSessionTaken - сущностью уже управляет другой клиент
var ErrSessionTaken = errors.New("entity already controlled by another session")

// Join привязывает клиента к управляемой сущности и возвращает её ключ.
// Пустой или неизвестный токен - первая свободная живая сущность игрока.
func (i *Instance) Join(token string) (string, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	i.sessionMu.Lock()
	defer i.sessionMu.Unlock()

	if token != "" {
		if e := i.World.GetByKey(token); e != nil {
			if !e.Has(domain.CapControllable) {
				return "", domain.ErrNotControllable
			}
			if e.IsDead() {
				return "", domain.ErrEntityDead
			}
			if i.sessions[token] {
				return "", ErrSessionTaken
			}
			i.sessions[token] = true
			i.log.WithField("key", token).Info("Session joined")
			return token, nil
		}
	}

	for _, e := range i.World.Entities() {
		if !e.Has(domain.CapControllable) || e.IsDead() || i.sessions[e.Key] {
			continue
		}
		i.sessions[e.Key] = true
		i.log.WithField("key", e.Key).Info("Session joined (auto-assigned)")
		return e.Key, nil
	}
	return "", domain.ErrEntityNotFound
}

// Leave освобождает сущность
func (i *Instance) Leave(key string) {
	i.sessionMu.Lock()
	defer i.sessionMu.Unlock()
	if i.sessions[key] {
		delete(i.sessions, key)
		i.log.WithField("key", key).Info("Session left")
	}
}
