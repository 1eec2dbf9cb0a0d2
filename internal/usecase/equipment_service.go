package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/fridgebot/backend/internal/domain"
	"github.com/fridgebot/backend/internal/pkg/logger"
)

// EquipmentService manages the kitchen tools a user owns. Names are matched exactly
// against the equipment catalog of the current snapshot.
type EquipmentService struct {
	snapshots SnapshotSource
	equipment domain.EquipmentRepository
	users     domain.UserRepository
	log       *logger.Logger
}

// NewEquipmentService creates a new equipment service with dependencies
func NewEquipmentService(
	snapshots SnapshotSource,
	equipment domain.EquipmentRepository,
	users domain.UserRepository,
	log *logger.Logger,
) *EquipmentService {
	return &EquipmentService{
		snapshots: snapshots,
		equipment: equipment,
		users:     users,
		log:       log.With("component", "EquipmentService"),
	}
}

// AddText adds every known tool named in text to the user's kitchen.
// Adding a tool the user already owns is a no-op for that tool.
func (s *EquipmentService) AddText(ctx context.Context, userID int64, firstName, text string) (*domain.EquipmentReport, error) {
	if userID <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	known, err := s.resolve(text)
	if err != nil {
		return nil, err
	}
	report := &domain.EquipmentReport{Added: known.names, Removed: []string{}, NotFound: known.notFound}
	if len(known.ids) == 0 {
		return report, nil
	}

	if err := s.users.EnsureUser(ctx, userID, firstName); err != nil {
		s.log.Error("ensure user failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("ensure user %d: %w", userID, err)
	}
	if err := s.equipment.AddUserEquipment(ctx, userID, known.ids); err != nil {
		s.log.Error("add equipment failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("add equipment for user %d: %w", userID, err)
	}

	s.log.Debug("equipment added", "user_id", userID, "added", len(report.Added), "not_found", len(report.NotFound))
	return report, nil
}

// RemoveText removes the tools named in text. Tools the user does not own are
// reported as not found.
func (s *EquipmentService) RemoveText(ctx context.Context, userID int64, text string) (*domain.EquipmentReport, error) {
	if userID <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	known, err := s.resolve(text)
	if err != nil {
		return nil, err
	}
	report := &domain.EquipmentReport{Added: []string{}, Removed: []string{}, NotFound: known.notFound}
	if len(known.ids) == 0 {
		return report, nil
	}

	owned, err := s.equipment.GetUserEquipment(ctx, userID)
	if err != nil {
		s.log.Error("read equipment failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list equipment for user %d: %w", userID, err)
	}
	have := make(map[int64]bool, len(owned))
	for _, e := range owned {
		have[e.ID] = true
	}

	var removeIDs []int64
	for i, name := range known.names {
		if have[known.ids[i]] {
			removeIDs = append(removeIDs, known.ids[i])
			report.Removed = append(report.Removed, name)
		} else {
			report.NotFound = append(report.NotFound, name)
		}
	}
	sort.Strings(report.NotFound)

	if len(removeIDs) > 0 {
		if err := s.equipment.RemoveUserEquipment(ctx, userID, removeIDs); err != nil {
			s.log.Error("remove equipment failed", "user_id", userID, "error", err)
			return nil, fmt.Errorf("remove equipment for user %d: %w", userID, err)
		}
	}
	return report, nil
}

// List returns the names of the user's tools in sorted order
func (s *EquipmentService) List(ctx context.Context, userID int64) ([]string, error) {
	if userID <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	owned, err := s.equipment.GetUserEquipment(ctx, userID)
	if err != nil {
		s.log.Error("read equipment failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list equipment for user %d: %w", userID, err)
	}
	names := make([]string, 0, len(owned))
	for _, e := range owned {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names, nil
}

// resolvedEquipment holds the catalog matches of a list; names[i] has ID ids[i]
type resolvedEquipment struct {
	names    []string
	ids      []int64
	notFound []string
}

// resolve splits text and looks every name up in the current equipment catalog
func (s *EquipmentService) resolve(text string) (*resolvedEquipment, error) {
	names := splitEquipmentList(text)
	if len(names) == 0 {
		return nil, domain.ErrEmptyStatement
	}

	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}

	out := &resolvedEquipment{names: []string{}, notFound: []string{}}
	for _, name := range names {
		entry, ok := snap.Equipment.Lookup(name)
		if !ok {
			out.notFound = append(out.notFound, name)
			continue
		}
		out.names = append(out.names, entry.Name)
		out.ids = append(out.ids, entry.ID)
	}
	return out, nil
}

// splitEquipmentList splits on commas, semicolons and line breaks. The result is
// lowercased, deduplicated and sorted.
func splitEquipmentList(text string) []string {
	text = strings.ToLower(norm.NFC.String(text))
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})

	seen := make(map[string]bool, len(parts))
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.Join(strings.Fields(p), " ")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
