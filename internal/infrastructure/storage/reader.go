package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"gridtactics/internal/domain"
	"io"
	"os"
)

// ErrBadMagic - файл не является журналом команд
var ErrBadMagic = errors.New("invalid journal magic")

func (s *JournalService) Load(path string) (*domain.JournalSession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadJournal(f)
}

// ReadJournal читает журнал, записанный WriteJournal
func ReadJournal(r io.Reader) (*domain.JournalSession, error) {
	// 1. Заголовок целиком
	var header JournalFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicHeader {
		return nil, ErrBadMagic
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.ActionCount < 0 {
		return nil, fmt.Errorf("corrupted header: action count %d", header.ActionCount)
	}

	levelBuf := make([]byte, header.LevelLen)
	if _, err := io.ReadFull(r, levelBuf); err != nil {
		return nil, fmt.Errorf("failed to read level name: %w", err)
	}

	session := &domain.JournalSession{
		Level:     string(levelBuf),
		TickRate:  int(header.TickRate),
		Timestamp: header.Timestamp,
		Actions:   make([]domain.JournalAction, header.ActionCount),
	}

	// 2. Команды
	for i := 0; i < int(header.ActionCount); i++ {
		var ah ActionHeader
		if err := binary.Read(r, binary.LittleEndian, &ah); err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}

		act := domain.JournalAction{
			Tick:   int(ah.Tick),
			Action: domain.ActionType(ah.ActionType),
		}

		tokenBuf := make([]byte, ah.TokenLen)
		if _, err := io.ReadFull(r, tokenBuf); err != nil {
			return nil, fmt.Errorf("action %d token: %w", i, err)
		}
		act.Token = string(tokenBuf)

		if ah.PayloadLen > 0 {
			act.Payload = make([]byte, ah.PayloadLen)
			if _, err := io.ReadFull(r, act.Payload); err != nil {
				return nil, fmt.Errorf("action %d payload: %w", i, err)
			}
		} else {
			act.Payload = json.RawMessage{}
		}

		session.Actions[i] = act
	}

	return session, nil
}
