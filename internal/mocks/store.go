package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"
	"github.com/davicafu/matafuegos/shared/platform/table"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Store es un repositorio en memoria con outbox incluido. Los criterios se evalúan
// resolviendo Field como path JSON del registro (ej. "cliente.nombre").
type Store[T any] struct {
	Items    map[uuid.UUID]T
	Outbox   []sharedDomain.OutboxEvent
	id       func(T) uuid.UUID
	notFound error
	mu       sync.Mutex
}

func NewStore[T any](id func(T) uuid.UUID, notFound error) *Store[T] {
	return &Store[T]{Items: make(map[uuid.UUID]T), id: id, notFound: notFound}
}

func (s *Store[T]) Put(item T, evt sharedDomain.OutboxEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Items[s.id(item)] = item
	s.Outbox = append(s.Outbox, evt)
	return nil
}

func (s *Store[T]) Get(id uuid.UUID) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.Items[id]
	if !ok {
		var zero T
		return zero, s.notFound
	}
	return item, nil
}

func (s *Store[T]) Replace(item T, evt sharedDomain.OutboxEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Items[s.id(item)]; !ok {
		return s.notFound
	}
	s.Items[s.id(item)] = item
	s.Outbox = append(s.Outbox, evt)
	return nil
}

func (s *Store[T]) Remove(id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Items[id]; !ok {
		return s.notFound
	}
	delete(s.Items, id)
	s.Outbox = append(s.Outbox, evt)
	return nil
}

// List filtra, ordena y pagina como lo haría un repositorio SQL.
func (s *Store[T]) List(criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) []T {
	s.mu.Lock()
	var list []T
	for _, item := range s.Items {
		if Match(item, criteria) {
			list = append(list, item)
		}
	}
	s.mu.Unlock()

	field := sort.Field
	if field == "" {
		field = "created_at"
	}
	dir := table.Asc
	if sort.Desc {
		dir = table.Desc
	}
	list = table.SortRecords(list, dir, func(r T) (any, bool) { return table.Resolve(r, field) }, language.Spanish)

	if p, ok := pagination.(sharedQuery.OffsetPagination); ok {
		start := p.Offset
		if start > len(list) {
			return []T{}
		}
		end := start + p.Limit
		if p.Limit <= 0 || end > len(list) {
			end = len(list)
		}
		return list[start:end]
	}
	return list
}

// ---------------- Outbox ----------------

func (s *Store[T]) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []sharedDomain.OutboxEvent
	for _, evt := range s.Outbox {
		if evt.Processed {
			continue
		}
		pending = append(pending, evt)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (s *Store[T]) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Outbox {
		if s.Outbox[i].ID == id {
			s.Outbox[i].Processed = true
			return nil
		}
	}
	return fmt.Errorf("outbox event not found: %s", id)
}

// EventTypes devuelve los tipos de evento guardados, en orden.
func (s *Store[T]) EventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.Outbox))
	for _, evt := range s.Outbox {
		out = append(out, evt.EventType)
	}
	return out
}

// ---------------- Criterios ----------------

// Match evalúa criterios neutrales sobre un registro.
func Match(record any, criteria sharedDomain.Criteria) bool {
	if sharedDomain.IsEmpty(criteria) {
		return true
	}
	if comp, ok := criteria.(sharedDomain.CompositeCriteria); ok {
		for _, sub := range comp.Criterias {
			m := Match(record, sub)
			if comp.Operator == sharedDomain.OpOr && m {
				return true
			}
			if comp.Operator != sharedDomain.OpOr && !m {
				return false
			}
		}
		return comp.Operator != sharedDomain.OpOr
	}
	for _, c := range criteria.ToConditions() {
		if !matchCriterion(record, c) {
			return false
		}
	}
	return true
}

func matchCriterion(record any, c sharedDomain.Criterion) bool {
	got, ok := table.Resolve(record, c.Field)
	if !ok || got == nil {
		return false
	}

	switch c.Op {
	case sharedDomain.OpEq:
		return key(got) == key(c.Value)
	case sharedDomain.OpNeq:
		return key(got) != key(c.Value)
	case sharedDomain.OpIn:
		for _, v := range asSlice(c.Value) {
			if key(got) == key(v) {
				return true
			}
		}
		return false
	case sharedDomain.OpLike, sharedDomain.OpILike:
		pattern := strings.Trim(fmt.Sprint(c.Value), "%")
		return strings.Contains(strings.ToLower(fmt.Sprint(got)), strings.ToLower(pattern))
	case sharedDomain.OpGt, sharedDomain.OpGte, sharedDomain.OpLt, sharedDomain.OpLte:
		cmp, ok := compare(got, c.Value)
		if !ok {
			return false
		}
		switch c.Op {
		case sharedDomain.OpGt:
			return cmp > 0
		case sharedDomain.OpGte:
			return cmp >= 0
		case sharedDomain.OpLt:
			return cmp < 0
		default:
			return cmp <= 0
		}
	}
	return false
}

func key(v any) string {
	switch x := v.(type) {
	case *uuid.UUID:
		if x == nil {
			return ""
		}
		return x.String()
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func asSlice(v any) []any {
	switch x := v.(type) {
	case []string:
		out := make([]any, len(x))
		for i := range x {
			out[i] = x[i]
		}
		return out
	case []any:
		return x
	}
	return []any{v}
}

func compare(a, b any) (int, bool) {
	at, aok := asTime(a)
	bt, bok := asTime(b)
	if aok && bok {
		return at.Compare(bt), true
	}
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b)), true
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}
