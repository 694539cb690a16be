package storage

import (
	"encoding/binary"
	"fmt"
	"gridtactics/internal/domain"
	"gridtactics/pkg/logger"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/sirupsen/logrus"
)

const (
	MagicHeader string = `GTJR` // 4 байта
	Version1    uint32 = 1

	// FileExt - расширение файлов журнала
	FileExt = ".gtj"
)

// JournalFileHeader - точное представление заголовка файла в памяти.
// Имя уровня идет сразу за заголовком (LevelLen байт).
type JournalFileHeader struct {
	Magic       [4]byte // 4 байта
	Version     uint32  // 4 байта
	Timestamp   int64   // 8 байт
	TickRate    int32   // 4 байта
	ActionCount int32   // 4 байта
	LevelLen    uint16  // 2 байта
}

// ActionHeader - заголовок каждой записи команды.
type ActionHeader struct {
	Tick       int32  // 4
	ActionType uint8  // 1
	TokenLen   uint8  // 1
	PayloadLen uint16 // 2
}

// JournalService сохраняет и читает журналы команд в каталоге SaveDir
type JournalService struct {
	SaveDir string
}

func NewJournalService(dir string) (*JournalService, error) {
	// Создаем папку если нет
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("journal dir %q: %w", dir, err)
	}
	return &JournalService{SaveDir: dir}, nil
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Save пишет журнал в новый файл и возвращает путь к нему
func (s *JournalService) Save(session *domain.JournalSession) (string, error) {
	level := unsafeName.ReplaceAllString(session.Level, "_")
	filename := fmt.Sprintf("journal_%s_%d%s", level, session.Timestamp, FileExt)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteJournal(f, session); err != nil {
		return "", err
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "journal",
		"path":      path,
		"actions":   len(session.Actions),
	}).Info("Journal saved")
	return path, nil
}

// WriteJournal сериализует журнал в w (little endian)
func WriteJournal(w io.Writer, s *domain.JournalSession) error {
	levelBytes := []byte(s.Level)
	if len(levelBytes) > 65535 {
		return fmt.Errorf("level name too long: %d", len(levelBytes))
	}

	// 1. Глобальный заголовок
	header := JournalFileHeader{
		Version:     Version1,
		Timestamp:   s.Timestamp,
		TickRate:    int32(s.TickRate),
		ActionCount: int32(len(s.Actions)),
		LevelLen:    uint16(len(levelBytes)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(levelBytes); err != nil {
		return fmt.Errorf("failed to write level name: %w", err)
	}

	// 2. Команды
	for _, act := range s.Actions {
		tokenBytes := []byte(act.Token)
		if len(tokenBytes) > 255 {
			return fmt.Errorf("token too long: %d", len(tokenBytes))
		}

		payloadLen := len(act.Payload)
		if payloadLen > 65535 {
			return fmt.Errorf("payload too long: %d", payloadLen)
		}

		actHeader := ActionHeader{
			Tick:       int32(act.Tick),
			ActionType: uint8(act.Action),
			TokenLen:   uint8(len(tokenBytes)),
			PayloadLen: uint16(payloadLen),
		}
		if err := binary.Write(w, binary.LittleEndian, &actHeader); err != nil {
			return err
		}

		if _, err := w.Write(tokenBytes); err != nil {
			return err
		}
		if payloadLen > 0 {
			if _, err := w.Write(act.Payload); err != nil {
				return err
			}
		}
	}

	return nil
}
