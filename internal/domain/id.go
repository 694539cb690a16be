package domain

import (
	"fmt"
	"strconv"
)

// EntityID - упакованный идентификатор (Type + Zone + Index)
type EntityID uint64

// Конфигурация битов
const (
	bitsIndex = 40
	bitsZone  = 16
	bitsType  = 8

	// Сдвиги
	shiftZone = bitsIndex
	shiftType = bitsIndex + bitsZone

	// Маски (для извлечения значений)
	maskIndex = (1 << bitsIndex) - 1
	maskZone  = (1 << bitsZone) - 1
	maskType  = (1 << bitsType) - 1
)

// PackEntityID создает ID из компонентов
func PackEntityID(t EntityType, zone uint16, index uint64) EntityID {
	id := index & maskIndex
	id |= (uint64(zone) & maskZone) << shiftZone
	id |= (uint64(t) & maskType) << shiftType
	return EntityID(id)
}

func (id EntityID) Type() EntityType {
	return EntityType((id >> shiftType) & maskType)
}

func (id EntityID) Zone() uint16 {
	return uint16((id >> shiftZone) & maskZone)
}

func (id EntityID) Index() uint64 {
	return uint64(id & maskIndex)
}

// MarshalJSON сериализует ID в строку, так как JS теряет точность для больших int64
func (id EntityID) MarshalJSON() ([]byte, error) {
	s := strconv.FormatUint(uint64(id), 10)
	return []byte(`"` + s + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON
func (id *EntityID) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*id = EntityID(val)
	return nil
}

// String для логов: [Type:Zone:Idx]
func (id EntityID) String() string {
	return fmt.Sprintf("[%s:%d:%d]", id.Type(), id.Zone(), id.Index())
}

// IDAllocator выдает последовательные ID внутри одной зоны
type IDAllocator struct {
	zone uint16
	next uint64
}

func NewIDAllocator(zone uint16) *IDAllocator {
	return &IDAllocator{zone: zone, next: 1}
}

// Next возвращает новый ID для сущности заданного типа
func (a *IDAllocator) Next(t EntityType) EntityID {
	id := PackEntityID(t, a.zone, a.next)
	a.next++
	return id
}
