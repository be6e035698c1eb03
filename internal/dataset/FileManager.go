package dataset

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"travelogue/internal/dataset/interfaces"
	"travelogue/internal/models"
	"travelogue/internal/providers"
)

const (
	compressedSuffix = ".zst"
	sessionVersion   = 1
)

var ErrUnsupportedSession = errors.New("unsupported session file version")

// sessionFile is the on-disk form of a persisted session.
type sessionFile struct {
	Version int                       `json:"version"`
	SavedAt time.Time                 `json:"saved_at"`
	History providers.HistorySnapshot `json:"history"`
}

type FileManager struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		logger:     logger,
	}
}

// LoadDataset reads a travel log payload. Files ending in .zst are
// zstd-compressed JSON, anything else is plain JSON.
func (f *FileManager) LoadDataset(fileName string) (*models.Payload, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(fileName, compressedSuffix) {
		data, err = f.compressor.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", fileName, err)
		}
	}

	var payload models.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fileName, err)
	}
	if payload.Entities == nil && payload.Logs == nil {
		f.logger.Warnf(providers.TypeApp, "Dataset %s has no entities and no logs", fileName)
	}
	return &payload, nil
}

// SaveSession writes the history snapshot compressed, through a temporary
// file renamed into place.
func (f *FileManager) SaveSession(fileName string, snapshot providers.HistorySnapshot) error {
	jsonData, err := json.Marshal(sessionFile{
		Version: sessionVersion,
		SavedAt: time.Now().UTC(),
		History: snapshot,
	})
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// LoadSession reads a snapshot written by SaveSession. A missing file is not
// an error; found reports whether there was one.
func (f *FileManager) LoadSession(fileName string) (snapshot providers.HistorySnapshot, found bool, err error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return snapshot, false, nil
		}
		return snapshot, false, err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return snapshot, false, err
	}

	var session sessionFile
	if err := json.Unmarshal(decompressedData, &session); err != nil {
		return snapshot, false, err
	}
	if session.Version != sessionVersion {
		return snapshot, false, fmt.Errorf("%w: %d", ErrUnsupportedSession, session.Version)
	}
	return session.History, true, nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
