// Package notebook holds saved words and their tags, in memory per session,
// with optional write-through persistence.
package notebook

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/vibevocab/internal/domain"
)

// Notebook is an ordered, case-insensitively keyed collection of saved entries.
//
// All methods are safe for concurrent use. The Plan* methods compute the result of a
// mutation without applying it; a Plan* call followed by Put must be serialized by the
// caller so nothing changes in between.
type Notebook struct {
	mu         sync.RWMutex
	entries    []domain.SavedEntry
	index      map[string]int
	catalog    *tagCatalog
	maxEntries int
	now        func() time.Time
}

// Option configures a Notebook.
type Option func(*Notebook)

// WithMaxEntries caps the number of entries. Zero means unlimited.
func WithMaxEntries(n int) Option {
	return func(nb *Notebook) { nb.maxEntries = n }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(nb *Notebook) { nb.now = now }
}

// New creates an empty notebook whose tag catalog starts with defaultTags.
func New(defaultTags []string, opts ...Option) *Notebook {
	nb := &Notebook{
		index:   make(map[string]int),
		catalog: newTagCatalog(defaultTags),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

// FromSnapshot rebuilds a notebook from persisted state. Entries keep their order;
// later duplicates of a key are dropped. Tags used by entries join the catalog.
func FromSnapshot(snap domain.NotebookSnapshot, defaultTags []string, opts ...Option) *Notebook {
	nb := New(defaultTags, opts...)
	for _, t := range snap.Tags {
		if t = domain.CleanTag(t); domain.ValidateTag(t) == nil {
			nb.catalog.add(t)
		}
	}
	for _, e := range snap.Entries {
		if _, dup := nb.index[e.Key()]; dup || e.Key() == "" {
			continue
		}
		nb.put(e.Clone())
	}
	return nb
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// Upsert inserts a new entry, or, when the word already exists (case-insensitively),
// replaces only its tag set. The stored lexical payload of an existing entry is never changed.
func (nb *Notebook) Upsert(word string, entry domain.LexicalEntry, tags []string) (domain.SavedEntry, error) {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	next, err := nb.planUpsert(word, entry, tags)
	if err != nil {
		return domain.SavedEntry{}, err
	}
	nb.put(next)
	return next.Clone(), nil
}

// Refresh replaces the lexical payload of an existing entry, keeping its tags and position.
func (nb *Notebook) Refresh(word string, entry domain.LexicalEntry) (domain.SavedEntry, error) {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	next, err := nb.planRefresh(word, entry)
	if err != nil {
		return domain.SavedEntry{}, err
	}
	nb.put(next)
	return next.Clone(), nil
}

// SetTags replaces the tag set of an existing entry.
func (nb *Notebook) SetTags(word string, tags []string) (domain.SavedEntry, error) {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	next, err := nb.planSetTags(word, tags)
	if err != nil {
		return domain.SavedEntry{}, err
	}
	nb.put(next)
	return next.Clone(), nil
}

// Remove deletes the entry for word. Removing an absent word is a no-op and reports false.
func (nb *Notebook) Remove(word string) bool {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	i, ok := nb.index[domain.WordKey(word)]
	if !ok {
		return false
	}
	nb.entries = slices.Delete(nb.entries, i, i+1)
	nb.reindex(i)
	return true
}

// AddTag appends a label to the catalog and returns its catalog spelling.
// Adding a label that already exists (case-insensitively) is not an error.
func (nb *Notebook) AddTag(label string) (string, error) {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	label = domain.CleanTag(label)
	if err := domain.ValidateTag(label); err != nil {
		return "", err
	}
	got, _ := nb.catalog.add(label)
	return got, nil
}

// Put stores a fully built entry, replacing any entry with the same key in place.
// Its tags join the catalog.
func (nb *Notebook) Put(e domain.SavedEntry) {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.put(e.Clone())
}

// ---------------------------------------------------------------------------
// Plans
// ---------------------------------------------------------------------------

// PlanUpsert returns the entry Upsert would store, without storing it.
func (nb *Notebook) PlanUpsert(word string, entry domain.LexicalEntry, tags []string) (domain.SavedEntry, error) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return nb.planUpsert(word, entry, tags)
}

// PlanRefresh returns the entry Refresh would store, without storing it.
func (nb *Notebook) PlanRefresh(word string, entry domain.LexicalEntry) (domain.SavedEntry, error) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return nb.planRefresh(word, entry)
}

// PlanSetTags returns the entry SetTags would store, without storing it.
func (nb *Notebook) PlanSetTags(word string, tags []string) (domain.SavedEntry, error) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return nb.planSetTags(word, tags)
}

// PlanCommit returns the new entries a batch commit would store, in candidate order,
// and the words it would skip because they are already saved or repeat an earlier
// candidate. The whole batch must fit: if it would push the notebook past its cap,
// nothing is planned.
func (nb *Notebook) PlanCommit(candidates []domain.SavedEntry) ([]domain.SavedEntry, []string, error) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	var (
		planned []domain.SavedEntry
		skipped []string
	)
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		key := domain.WordKey(c.Word)
		if _, ok := nb.index[key]; ok || seen[key] {
			skipped = append(skipped, c.Word)
			continue
		}
		seen[key] = true

		clean, err := nb.normalizeTags(c.Tags)
		if err != nil {
			return nil, nil, err
		}
		planned = append(planned, domain.SavedEntry{
			ID:        uuid.New(),
			Word:      domain.CleanWord(c.Word),
			Entry:     c.Entry.Clone(),
			Tags:      clean,
			CreatedAt: nb.now().UTC(),
		})
	}

	if nb.maxEntries > 0 && len(nb.entries)+len(planned) > nb.maxEntries {
		return nil, nil, domain.NewValidationError("notebook",
			fmt.Sprintf("full (%d free, batch needs %d)", max(nb.maxEntries-len(nb.entries), 0), len(planned)))
	}
	return planned, skipped, nil
}

// PlanTag cleans and validates a label and reports whether the catalog already knows it.
func (nb *Notebook) PlanTag(label string) (string, bool, error) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	label = domain.CleanTag(label)
	if err := domain.ValidateTag(label); err != nil {
		return "", false, err
	}
	if existing, ok := nb.catalog.lookup(label); ok {
		return existing, true, nil
	}
	return label, false, nil
}

func (nb *Notebook) planUpsert(word string, entry domain.LexicalEntry, tags []string) (domain.SavedEntry, error) {
	word = domain.CleanWord(word)
	if word == "" {
		return domain.SavedEntry{}, domain.NewValidationError("word", "required")
	}
	clean, err := nb.normalizeTags(tags)
	if err != nil {
		return domain.SavedEntry{}, err
	}

	if i, ok := nb.index[domain.WordKey(word)]; ok {
		next := nb.entries[i].Clone()
		next.Tags = clean
		return next, nil
	}

	if nb.maxEntries > 0 && len(nb.entries) >= nb.maxEntries {
		return domain.SavedEntry{}, domain.NewValidationError("notebook", "full")
	}

	return domain.SavedEntry{
		ID:        uuid.New(),
		Word:      word,
		Entry:     entry.Clone(),
		Tags:      clean,
		CreatedAt: nb.now().UTC(),
	}, nil
}

func (nb *Notebook) planRefresh(word string, entry domain.LexicalEntry) (domain.SavedEntry, error) {
	i, ok := nb.index[domain.WordKey(word)]
	if !ok {
		return domain.SavedEntry{}, domain.ErrNotFound
	}
	if msg := checkEntry(entry); msg != "" {
		return domain.SavedEntry{}, domain.NewValidationError("entry", msg)
	}
	next := nb.entries[i].Clone()
	next.Entry = entry.Clone()
	return next, nil
}

func (nb *Notebook) planSetTags(word string, tags []string) (domain.SavedEntry, error) {
	i, ok := nb.index[domain.WordKey(word)]
	if !ok {
		return domain.SavedEntry{}, domain.ErrNotFound
	}
	clean, err := nb.normalizeTags(tags)
	if err != nil {
		return domain.SavedEntry{}, err
	}
	next := nb.entries[i].Clone()
	next.Tags = clean
	return next, nil
}

// normalizeTags validates tags and maps labels the catalog already knows onto their catalog spelling.
func (nb *Notebook) normalizeTags(tags []string) ([]string, error) {
	clean, err := domain.NormalizeTags(tags)
	if err != nil {
		return nil, err
	}
	for i, t := range clean {
		if existing, ok := nb.catalog.lookup(t); ok {
			clean[i] = existing
		}
	}
	return clean, nil
}

func (nb *Notebook) put(e domain.SavedEntry) {
	for _, t := range e.Tags {
		nb.catalog.add(t)
	}
	key := e.Key()
	if i, ok := nb.index[key]; ok {
		nb.entries[i] = e
		return
	}
	nb.index[key] = len(nb.entries)
	nb.entries = append(nb.entries, e)
}

func (nb *Notebook) reindex(from int) {
	for k, i := range nb.index {
		if i == from {
			delete(nb.index, k)
		}
	}
	for i := from; i < len(nb.entries); i++ {
		nb.index[nb.entries[i].Key()] = i
	}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Get returns the entry for word.
func (nb *Notebook) Get(word string) (domain.SavedEntry, bool) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	i, ok := nb.index[domain.WordKey(word)]
	if !ok {
		return domain.SavedEntry{}, false
	}
	return nb.entries[i].Clone(), true
}

// Contains reports whether word is saved.
func (nb *Notebook) Contains(word string) bool {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	_, ok := nb.index[domain.WordKey(word)]
	return ok
}

// WordKeys returns the identity keys of all saved words.
func (nb *Notebook) WordKeys() map[string]struct{} {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	keys := make(map[string]struct{}, len(nb.index))
	for k := range nb.index {
		keys[k] = struct{}{}
	}
	return keys
}

// FilterByTag returns the entries carrying tag in insertion order, or every entry for
// domain.TagAll or an empty tag.
func (nb *Notebook) FilterByTag(tag string) []domain.SavedEntry {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	tag = domain.CleanTag(tag)
	if tag == "" || strings.EqualFold(tag, domain.TagAll) {
		tag = domain.TagAll
	}
	out := make([]domain.SavedEntry, 0, len(nb.entries))
	for _, e := range nb.entries {
		if e.HasTag(tag) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// TagCounts returns the count for domain.TagAll followed by one count per catalog tag.
// Counts are computed from the current entries on every call.
func (nb *Notebook) TagCounts() []domain.TagCount {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	labels := nb.catalog.all()
	counts := make([]domain.TagCount, 0, len(labels)+1)
	counts = append(counts, domain.TagCount{Tag: domain.TagAll, Count: len(nb.entries)})
	for _, l := range labels {
		n := 0
		for _, e := range nb.entries {
			if e.HasTag(l) {
				n++
			}
		}
		counts = append(counts, domain.TagCount{Tag: l, Count: n})
	}
	return counts
}

// Tags returns the catalog labels in the order they were added.
func (nb *Notebook) Tags() []string {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return nb.catalog.all()
}

// Len returns the number of saved entries.
func (nb *Notebook) Len() int {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return len(nb.entries)
}

// Snapshot returns a deep copy of the notebook state.
func (nb *Notebook) Snapshot() domain.NotebookSnapshot {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	entries := make([]domain.SavedEntry, len(nb.entries))
	for i, e := range nb.entries {
		entries[i] = e.Clone()
	}
	return domain.NotebookSnapshot{Entries: entries, Tags: nb.catalog.all()}
}
