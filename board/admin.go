package board

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aabdoo23/nucpa-balloons/apiclient"
	"github.com/aabdoo23/nucpa-balloons/models"
)

// AdminBoard mirrors the contest configuration surfaces: settings
// instances, the active instance, and the room/team/map collections. The
// backend does not push these; every mutation reloads.
type AdminBoard struct {
	client *apiclient.Client
	log    *slog.Logger

	mu       sync.Mutex
	loading  bool
	loadErr  error
	settings []models.AdminSettings
	active   models.AdminSettings
	rooms    []models.Room
	teams    []models.Team
	maps     []models.ProblemBalloonMap
}

func NewAdminBoard(client *apiclient.Client, log *slog.Logger) *AdminBoard {
	if log == nil {
		log = slog.Default()
	}
	return &AdminBoard{client: client, log: log}
}

// Load replaces every admin collection. Parallel fetches, fail-fast like
// the task boards.
func (b *AdminBoard) Load(ctx context.Context) error {
	b.mu.Lock()
	b.loading = true
	b.loadErr = nil
	b.mu.Unlock()

	var (
		wg       sync.WaitGroup
		settings []models.AdminSettings
		active   models.AdminSettings
		rooms    []models.Room
		teams    []models.Team
		maps     []models.ProblemBalloonMap
		errs     [5]error
	)
	wg.Add(5)
	go func() { defer wg.Done(); settings, errs[0] = b.client.AllAdminSettings(ctx) }()
	go func() { defer wg.Done(); active, errs[1] = b.client.ActiveAdminSettings(ctx) }()
	go func() { defer wg.Done(); rooms, errs[2] = b.client.AllRooms(ctx) }()
	go func() { defer wg.Done(); teams, errs[3] = b.client.AllTeams(ctx) }()
	go func() { defer wg.Done(); maps, errs[4] = b.client.ProblemBalloonMaps(ctx) }()
	wg.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	for _, err := range errs {
		if err != nil {
			b.loadErr = err
			b.settings = nil
			b.active = models.AdminSettings{}
			b.rooms = nil
			b.teams = nil
			b.maps = nil
			return err
		}
	}
	b.settings = settings
	b.active = active
	b.rooms = rooms
	b.teams = teams
	b.maps = maps
	return nil
}

func (b *AdminBoard) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

func (b *AdminBoard) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loadErr
}

func (b *AdminBoard) Settings() []models.AdminSettings {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings
}

func (b *AdminBoard) Active() models.AdminSettings {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

func (b *AdminBoard) Rooms() []models.Room {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rooms
}

func (b *AdminBoard) Teams() []models.Team {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.teams
}

func (b *AdminBoard) Maps() []models.ProblemBalloonMap {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.maps
}

// Mutations: each runs the call, then reloads so the mirrored
// collections reflect server truth whether or not the call succeeded.

func (b *AdminBoard) mutate(ctx context.Context, what string, call func() error) error {
	err := call()
	if err != nil {
		b.log.Warn("admin mutation failed", "op", what, "error", err)
	}
	if reloadErr := b.Load(ctx); reloadErr != nil {
		b.log.Warn("reload after admin mutation failed", "op", what, "error", reloadErr)
		if err == nil {
			err = reloadErr
		}
	}
	return err
}

func (b *AdminBoard) CreateRoom(ctx context.Context, room models.RoomCreate) error {
	return b.mutate(ctx, "createRoom", func() error {
		_, err := b.client.CreateRoom(ctx, room)
		return err
	})
}

func (b *AdminBoard) UpdateRoom(ctx context.Context, room models.Room) error {
	return b.mutate(ctx, "updateRoom", func() error {
		_, err := b.client.UpdateRoom(ctx, room)
		return err
	})
}

func (b *AdminBoard) DeleteRoom(ctx context.Context, roomID string) error {
	return b.mutate(ctx, "deleteRoom", func() error {
		return b.client.DeleteRoom(ctx, roomID)
	})
}

func (b *AdminBoard) CreateTeam(ctx context.Context, team models.TeamCreate) error {
	return b.mutate(ctx, "createTeam", func() error {
		_, err := b.client.CreateTeam(ctx, team)
		return err
	})
}

func (b *AdminBoard) DeleteTeam(ctx context.Context, teamID string) error {
	return b.mutate(ctx, "deleteTeam", func() error {
		return b.client.DeleteTeam(ctx, teamID)
	})
}

func (b *AdminBoard) MoveTeam(ctx context.Context, teamID, roomID string) error {
	return b.mutate(ctx, "updateTeamRoom", func() error {
		_, err := b.client.UpdateTeamRoom(ctx, teamID, roomID)
		return err
	})
}

func (b *AdminBoard) CreateMap(ctx context.Context, m models.ProblemBalloonMap) error {
	return b.mutate(ctx, "createProblemBalloonMap", func() error {
		_, err := b.client.CreateProblemBalloonMap(ctx, m)
		return err
	})
}

func (b *AdminBoard) UpdateMap(ctx context.Context, m models.ProblemBalloonMap) error {
	return b.mutate(ctx, "updateProblemBalloonMap", func() error {
		_, err := b.client.UpdateProblemBalloonMap(ctx, m)
		return err
	})
}

func (b *AdminBoard) DeleteMap(ctx context.Context, id string) error {
	return b.mutate(ctx, "deleteProblemBalloonMap", func() error {
		return b.client.DeleteProblemBalloonMap(ctx, id)
	})
}

func (b *AdminBoard) CreateSettings(ctx context.Context, settings models.AdminSettings) error {
	return b.mutate(ctx, "createSettings", func() error {
		_, err := b.client.CreateAdminSettings(ctx, settings)
		return err
	})
}

func (b *AdminBoard) UpdateSettings(ctx context.Context, settings models.AdminSettings) error {
	return b.mutate(ctx, "updateSettings", func() error {
		_, err := b.client.UpdateAdminSettings(ctx, settings)
		return err
	})
}

// SetActive switches which settings instance governs the contest.
func (b *AdminBoard) SetActive(ctx context.Context, id string) error {
	return b.mutate(ctx, "setActiveSettings", func() error {
		return b.client.SetActiveAdminSettings(ctx, id)
	})
}

// RoomStat is one row of the team distribution table.
type RoomStat struct {
	RoomName    string
	Teams       int
	Capacity    int
	Utilization int // percent, 0 when capacity is unknown
}

// TeamDistribution aggregates team counts and utilization per room.
func (b *AdminBoard) TeamDistribution() []RoomStat {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := make([]RoomStat, 0, len(b.rooms))
	for _, room := range b.rooms {
		count := 0
		for _, team := range b.teams {
			if team.RoomID == room.ID {
				count++
			}
		}
		stat := RoomStat{RoomName: room.Name, Teams: count}
		if room.Capacity != nil {
			stat.Capacity = *room.Capacity
		}
		if stat.Capacity > 0 {
			stat.Utilization = count * 100 / stat.Capacity
		}
		stats = append(stats, stat)
	}
	return stats
}

// AvailableRooms counts rooms flagged available.
func (b *AdminBoard) AvailableRooms() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, room := range b.rooms {
		if room.IsAvailable != nil && *room.IsAvailable {
			n++
		}
	}
	return n
}
