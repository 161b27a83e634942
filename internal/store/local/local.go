// Package local persiste os documentos num único arquivo JSON. É o modo de
// desenvolvimento, equivalente ao mock em localStorage do front-end.
//
// Cada escrita relê o arquivo antes de gravar, então a storefront e o
// souqctl podem dividir o mesmo arquivo sem apagar as escritas um do outro.
// Não há trava entre processos: duas escritas simultâneas ainda podem
// disputar o rename, e vence a última.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"souq/internal/apperr"
)

type Store struct {
	path string

	mu   sync.RWMutex
	data map[string]map[string]json.RawMessage
}

// Open carrega o arquivo; arquivo inexistente equivale a um store vazio.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: map[string]map[string]json.RawMessage{}}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// reload troca o snapshot em memória pelo conteúdo atual do arquivo; exige
// s.mu travado. Arquivo ausente mantém o que já está em memória.
func (s *Store) reload() error {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(b) == 0 {
		return nil
	}
	data := map[string]map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &data); err != nil {
		return fmt.Errorf("decode %s: %w", s.path, err)
	}
	s.data = data
	return nil
}

func (s *Store) Get(_ context.Context, collection, id string, out any) error {
	s.mu.RLock()
	raw, ok := s.data[collection][id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, apperr.ErrNotFound)
	}
	return json.Unmarshal(raw, out)
}

func (s *Store) Put(_ context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reload(); err != nil {
		return err
	}
	coll, ok := s.data[collection]
	if !ok {
		coll = map[string]json.RawMessage{}
		s.data[collection] = coll
	}
	prev, existed := coll[id]
	coll[id] = raw
	if err := s.flush(); err != nil {
		if existed {
			coll[id] = prev
		} else {
			delete(coll, id)
		}
		return err
	}
	return nil
}

func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reload(); err != nil {
		return err
	}
	prev, ok := s.data[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, apperr.ErrNotFound)
	}
	delete(s.data[collection], id)
	if err := s.flush(); err != nil {
		s.data[collection][id] = prev
		return err
	}
	return nil
}

// List devolve os documentos ordenados por ID para manter a saída estável.
func (s *Store) List(_ context.Context, collection string) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.data[collection]
	keys := make([]string, 0, len(coll))
	for k := range coll {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]json.RawMessage, 0, len(keys))
	for _, k := range keys {
		out = append(out, coll[k])
	}
	return out, nil
}

func (s *Store) Close() error { return nil }

// flush grava num temporário e renomeia; exige s.mu travado.
func (s *Store) flush() error {
	b, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".store-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
