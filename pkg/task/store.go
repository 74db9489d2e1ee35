package task

import (
	"errors"
	"strings"
	"sync"
	"time"
)

type DeletePolicy int

const (
	// DeleteChildren removes the task and its direct children only,
	// grandchildren are left with a dangling parent
	DeleteChildren DeletePolicy = iota
	// DeleteSubtree removes every descendant
	DeleteSubtree
)

// ParseDeletePolicy accepts "children" and "subtree"
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "children":
		return DeleteChildren, nil
	case "subtree":
		return DeleteSubtree, nil
	}
	return DeleteChildren, errors.New("invalid delete policy, expected 'children' or 'subtree'")
}

type StoreManager interface {
	Create(title string, opts ...CreateOption) (Task, error)
	Update(ID, Patch) error
	Delete(ID) error
	Toggle(ID) error

	AddTag(ID, string) error
	RemoveTag(ID, string) error
	SetColor(ID, Color) error
	SetReminder(ID, time.Time) error
	ClearReminder(ID) error

	Snapshot() Snapshot
	Get(ID) (Task, bool)
	Subscribe(func(Snapshot)) func()
}

var _ StoreManager = &Store{}

var (
	ErrIDAlreadyExists = errors.New("task with the given ID already exists")
	ErrNotFound        = errors.New("not found")
	ErrEmptyTitle      = errors.New("title is empty")
	ErrEmptyTag        = errors.New("tag is empty")
	ErrCycle           = errors.New("task cannot become its own ancestor")
)

// Store holds the authoritative task list.
// Every mutation replaces the whole list and publishes a new snapshot.
type Store struct {
	mu   sync.RWMutex
	snap *Snapshot

	now    func() time.Time
	newID  func() ID
	policy DeletePolicy

	subsMu  sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int

	// held from the snapshot swap until subscribers return
	pubMu sync.Mutex
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDs(gen func() ID) Option {
	return func(s *Store) { s.newID = gen }
}

func WithDeletePolicy(p DeletePolicy) Option {
	return func(s *Store) { s.policy = p }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		snap:  newSnapshot(0, nil),
		now:   time.Now,
		newID: RandomID,
		subs:  map[int]func(Snapshot){},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type createParams struct {
	parent   ID
	color    Color
	reminder *time.Time
}

type CreateOption func(*createParams)

func WithParent(id ID) CreateOption {
	return func(p *createParams) { p.parent = id }
}

func WithColor(c Color) CreateOption {
	return func(p *createParams) { p.color = c }
}

func WithReminder(t time.Time) CreateOption {
	return func(p *createParams) { p.reminder = &t }
}

// Patch lists the attributes to replace. Nil fields are left untouched.
// Tags follows the same rule: nil keeps the tags, an empty slice clears them.
type Patch struct {
	Title         *string
	Completed     *bool
	Color         *Color
	Tags          []string
	Reminder      *time.Time
	ClearReminder bool
	// an empty ID turns the task into a root task
	ParentID *ID
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.snap
}

func (s *Store) Get(id ID) (Task, bool) {
	return s.Snapshot().Get(id)
}

func (s *Store) Len() int {
	return s.Snapshot().Len()
}

// Subscribe registers fn to be called with every new snapshot.
// Snapshots are delivered in version order, one at a time.
// fn must not mutate the store, and the returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

// apply computes the next task list from the current one and publishes it.
// fn must not modify the slice it is given.
func (s *Store) apply(fn func(cur *Snapshot) ([]Task, error)) error {
	s.mu.Lock()
	next, err := fn(s.snap)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	snap := newSnapshot(s.snap.Version+1, next)
	s.snap = snap
	s.pubMu.Lock()
	s.mu.Unlock()

	defer s.pubMu.Unlock()
	s.publish(*snap)
	return nil
}

func (s *Store) publish(snap Snapshot) {
	s.subsMu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subsMu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) Create(title string, opts ...CreateOption) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	p := createParams{color: DefaultColor()}
	for _, opt := range opts {
		opt(&p)
	}
	if _, ok := ParseColor(string(p.color)); !ok {
		p.color = DefaultColor()
	}

	var created Task
	err := s.apply(func(cur *Snapshot) ([]Task, error) {
		id, err := s.freshID(cur)
		if err != nil {
			return nil, err
		}
		created = Task{
			ID:        id,
			CreatedAt: s.now(),
			Title:     title,
			Color:     p.color,
			Tags:      []string{},
			ParentID:  p.parent,
		}
		if p.reminder != nil {
			r := *p.reminder
			created.Reminder = &r
		}
		next := make([]Task, 0, len(cur.tasks)+1)
		next = append(next, cur.tasks...)
		return append(next, created), nil
	})
	if err != nil {
		return Task{}, err
	}
	return created.clone(), nil
}

// freshID retries the generator a few times, a collision with a uuid is
// not expected but the store must never hold two tasks with the same id
func (s *Store) freshID(cur *Snapshot) (ID, error) {
	for i := 0; i < 8; i++ {
		id := s.newID()
		if id != "" && !cur.Has(id) {
			return id, nil
		}
	}
	return "", ErrIDAlreadyExists
}

func (s *Store) Update(id ID, patch Patch) error {
	return s.apply(func(cur *Snapshot) ([]Task, error) {
		i, ok := cur.index[id]
		if !ok {
			return nil, ErrNotFound
		}
		if patch.ParentID != nil && *patch.ParentID != "" {
			if *patch.ParentID == id || IsAncestor(*cur, id, *patch.ParentID) {
				return nil, ErrCycle
			}
		}
		t := cur.tasks[i].clone()
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}
		if patch.Color != nil {
			t.Color = *patch.Color
		}
		if patch.Tags != nil {
			t.Tags = normalizeTags(patch.Tags)
		}
		if patch.ClearReminder {
			t.Reminder = nil
		}
		if patch.Reminder != nil {
			r := *patch.Reminder
			t.Reminder = &r
		}
		if patch.ParentID != nil {
			t.ParentID = *patch.ParentID
		}
		return replace(cur.tasks, i, t), nil
	})
}

func (s *Store) Toggle(id ID) error {
	return s.apply(func(cur *Snapshot) ([]Task, error) {
		i, ok := cur.index[id]
		if !ok {
			return nil, ErrNotFound
		}
		t := cur.tasks[i].clone()
		t.Completed = !t.Completed
		return replace(cur.tasks, i, t), nil
	})
}

func (s *Store) Delete(id ID) error {
	return s.apply(func(cur *Snapshot) ([]Task, error) {
		if !cur.Has(id) {
			return nil, ErrNotFound
		}
		remove := map[ID]bool{id: true}
		switch s.policy {
		case DeleteSubtree:
			for _, d := range Descendants(*cur, id) {
				remove[d.ID] = true
			}
		default:
			for _, c := range cur.Children(id) {
				remove[c.ID] = true
			}
		}
		next := make([]Task, 0, len(cur.tasks))
		for _, t := range cur.tasks {
			if !remove[t.ID] {
				next = append(next, t)
			}
		}
		return next, nil
	})
}

// errUnchanged aborts apply without publishing, it never leaves the store
var errUnchanged = errors.New("unchanged")

func (s *Store) AddTag(id ID, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ErrEmptyTag
	}
	err := s.apply(func(cur *Snapshot) ([]Task, error) {
		i, ok := cur.index[id]
		if !ok {
			return nil, ErrNotFound
		}
		if cur.tasks[i].HasTag(tag) {
			return nil, errUnchanged
		}
		t := cur.tasks[i].clone()
		t.Tags = append(t.Tags, tag)
		return replace(cur.tasks, i, t), nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	return err
}

func (s *Store) RemoveTag(id ID, tag string) error {
	err := s.apply(func(cur *Snapshot) ([]Task, error) {
		i, ok := cur.index[id]
		if !ok {
			return nil, ErrNotFound
		}
		if !cur.tasks[i].HasTag(tag) {
			return nil, errUnchanged
		}
		t := cur.tasks[i].clone()
		tags := make([]string, 0, len(t.Tags))
		for _, x := range t.Tags {
			if x != tag {
				tags = append(tags, x)
			}
		}
		t.Tags = tags
		return replace(cur.tasks, i, t), nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	return err
}

func (s *Store) SetColor(id ID, c Color) error {
	return s.Update(id, Patch{Color: &c})
}

// SetReminder accepts any timestamp, including ones in the past
func (s *Store) SetReminder(id ID, at time.Time) error {
	return s.Update(id, Patch{Reminder: &at})
}

func (s *Store) ClearReminder(id ID) error {
	return s.Update(id, Patch{ClearReminder: true})
}

func (s *Store) SetTitle(id ID, title string) error {
	return s.Update(id, Patch{Title: &title})
}

// Move reparents a task, an empty parent makes it a root task
func (s *Store) Move(id, parent ID) error {
	return s.Update(id, Patch{ParentID: &parent})
}

func replace(tasks []Task, i int, t Task) []Task {
	next := make([]Task, len(tasks))
	copy(next, tasks)
	next[i] = t
	return next
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
