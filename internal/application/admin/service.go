package admin

import (
	"context"
	"sort"
	"time"

	"sharebloom-backend/internal/application/policies/access"
	"sharebloom-backend/internal/domain"
	"sharebloom-backend/internal/pkg/apperr"
	"sharebloom-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ReportLimit caps the merged activity report.
const ReportLimit = 100

const recentDriveCount = 5

// Service computes platform aggregates for administrators.
type Service struct {
	DB *gorm.DB
}

type Totals struct {
	ByRole       map[string]int64 `json:"byRole"`
	Users        int64            `json:"users"`
	Donations    int64            `json:"donations"`
	Requests     int64            `json:"requests"`
	ActiveDrives int64            `json:"activeDrives"`
}

type RecentDrive struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type Stats struct {
	Totals             Totals        `json:"totals"`
	PendingRequests    int64         `json:"pendingRequests"`
	AvailableDonations int64         `json:"availableDonations"`
	RecentDrives       []RecentDrive `json:"recentDrives"`
}

// ReportEntry is one line of the recent activity report.
type ReportEntry struct {
	Type      string    `json:"type"`
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
}

func authorizeReports(actor access.Actor) error {
	if actor.ID == uuid.Nil {
		return access.ErrNotAuthenticated
	}
	if !constants.AllowedRole(constants.ViewReports, actor.Role) {
		return access.ErrRoleNotAllowed
	}
	return nil
}

type roleCount struct {
	Role  string
	Count int64
}

// Stats runs the independent counts concurrently.
func (s *Service) Stats(ctx context.Context, actor access.Actor) (*Stats, error) {
	if err := authorizeReports(actor); err != nil {
		return nil, err
	}
	out := &Stats{Totals: Totals{ByRole: map[string]int64{}}}
	var roles []roleCount

	g, gctx := errgroup.WithContext(ctx)
	db := func() *gorm.DB { return s.DB.WithContext(gctx) }
	count := func(model interface{}, dst *int64, where ...interface{}) {
		g.Go(func() error {
			q := db().Model(model)
			if len(where) > 0 {
				q = q.Where(where[0], where[1:]...)
			}
			return q.Count(dst).Error
		})
	}

	g.Go(func() error {
		return db().Model(&domain.User{}).Select("role, COUNT(*) AS count").Group("role").Scan(&roles).Error
	})
	count(&domain.User{}, &out.Totals.Users)
	count(&domain.Donation{}, &out.Totals.Donations)
	count(&domain.Request{}, &out.Totals.Requests)
	count(&domain.Drive{}, &out.Totals.ActiveDrives, "status IN ?", []string{constants.DriveActive, constants.DriveUpcoming})
	count(&domain.Request{}, &out.PendingRequests, "status = ?", constants.RequestPending)
	count(&domain.Donation{}, &out.AvailableDonations, "status = ?", constants.DonationAvailable)
	g.Go(func() error {
		return db().Model(&domain.Drive{}).
			Select("id", "title", "start_date", "end_date").
			Order("created_at DESC").Limit(recentDriveCount).
			Scan(&out.RecentDrives).Error
	})

	if err := g.Wait(); err != nil {
		return nil, apperr.Internal(err)
	}
	for _, r := range roles {
		out.Totals.ByRole[r.Role] = r.Count
	}
	if out.RecentDrives == nil {
		out.RecentDrives = []RecentDrive{}
	}
	return out, nil
}

// Reports merges the most recent donations and requests, newest first.
func (s *Service) Reports(ctx context.Context, actor access.Actor) ([]ReportEntry, error) {
	if err := authorizeReports(actor); err != nil {
		return nil, err
	}
	var (
		donations []domain.Donation
		requests  []domain.Request
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.DB.WithContext(gctx).Select("id", "title", "description", "created_at").
			Order("created_at DESC").Limit(ReportLimit).Find(&donations).Error
	})
	g.Go(func() error {
		return s.DB.WithContext(gctx).Select("id", "title", "description", "created_at").
			Order("created_at DESC").Limit(ReportLimit).Find(&requests).Error
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal(err)
	}

	entries := make([]ReportEntry, 0, len(donations)+len(requests))
	for _, d := range donations {
		entries = append(entries, ReportEntry{Type: "donation", ID: d.ID, CreatedAt: d.CreatedAt, Title: d.Title, Summary: d.Description})
	}
	for _, r := range requests {
		entries = append(entries, ReportEntry{Type: "request", ID: r.ID, CreatedAt: r.CreatedAt, Title: r.Title, Summary: r.Description})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if len(entries) > ReportLimit {
		entries = entries[:ReportLimit]
	}
	return entries, nil
}
