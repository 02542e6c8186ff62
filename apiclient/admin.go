package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aabdoo23/nucpa-balloons/models"
)

// Login exchanges admin credentials for a bearer token. Storing the token
// is the caller's concern.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp models.LoginResponse
	err := c.post(ctx, "/admin/login", models.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login succeeded but no token returned")
	}
	return resp.Token, nil
}

// adminSettingsWire tolerates envelope-wrapped embedded collections; the
// backend wraps teams/rooms/maps in $values on some settings endpoints
// and not others.
type adminSettingsWire struct {
	ID                  string                                `json:"id"`
	AdminUsername       string                                `json:"adminUsername"`
	ContestID           string                                `json:"contestId"`
	CodeforcesAPIKey    string                                `json:"codeforcesApiKey"`
	CodeforcesAPISecret string                                `json:"codeforcesApiSecret"`
	IsEnabled           bool                                  `json:"isEnabled"`
	Teams               listPayload[models.Team]              `json:"teams"`
	Rooms               listPayload[models.Room]              `json:"rooms"`
	ProblemBalloonMaps  listPayload[models.ProblemBalloonMap] `json:"problemBalloonMaps"`
}

func (w adminSettingsWire) settings() models.AdminSettings {
	s := models.AdminSettings{
		ID:                  w.ID,
		AdminUsername:       w.AdminUsername,
		ContestID:           w.ContestID,
		CodeforcesAPIKey:    w.CodeforcesAPIKey,
		CodeforcesAPISecret: w.CodeforcesAPISecret,
		IsEnabled:           w.IsEnabled,
		Teams:               w.Teams.items,
		Rooms:               w.Rooms.items,
		ProblemBalloonMaps:  w.ProblemBalloonMaps.items,
	}
	if s.Teams == nil {
		s.Teams = []models.Team{}
	}
	if s.Rooms == nil {
		s.Rooms = []models.Room{}
	}
	if s.ProblemBalloonMaps == nil {
		s.ProblemBalloonMaps = []models.ProblemBalloonMap{}
	}
	return s
}

// AllAdminSettings lists every contest configuration. The backend has
// been seen returning an enveloped array, a bare array, and a single
// bare object here; all three decode to a slice.
func (c *Client) AllAdminSettings(ctx context.Context) ([]models.AdminSettings, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/admin/settings/getAll", &raw); err != nil {
		return nil, err
	}

	var payload listPayload[adminSettingsWire]
	if err := payload.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	wires := payload.items
	if len(wires) == 0 {
		// Possibly a single object rather than an array.
		var single adminSettingsWire
		if err := json.Unmarshal(raw, &single); err == nil && single.ID != "" {
			wires = []adminSettingsWire{single}
		}
	}

	settings := make([]models.AdminSettings, 0, len(wires))
	for _, w := range wires {
		settings = append(settings, w.settings())
	}
	return settings, nil
}

// ActiveAdminSettings fetches the single settings instance currently
// governing the contest.
func (c *Client) ActiveAdminSettings(ctx context.Context) (models.AdminSettings, error) {
	var wire adminSettingsWire
	if err := c.get(ctx, "/admin/settings/getActive", &wire); err != nil {
		return models.AdminSettings{}, err
	}
	return wire.settings(), nil
}

func (c *Client) CreateAdminSettings(ctx context.Context, settings models.AdminSettings) (models.AdminSettings, error) {
	var wire adminSettingsWire
	err := c.post(ctx, "/admin/settings/create", settings, &wire)
	return wire.settings(), err
}

func (c *Client) UpdateAdminSettings(ctx context.Context, settings models.AdminSettings) (models.AdminSettings, error) {
	var wire adminSettingsWire
	err := c.post(ctx, "/admin/settings/update", settings, &wire)
	return wire.settings(), err
}

// SetActiveAdminSettings switches which settings instance is active.
func (c *Client) SetActiveAdminSettings(ctx context.Context, id string) error {
	return c.postQuery(ctx, "/admin/settings/enable", url.Values{"id": {id}})
}

// Rooms

func (c *Client) AllRooms(ctx context.Context) ([]models.Room, error) {
	return getList[models.Room](ctx, c, "/admin/settings/room/getAll")
}

func (c *Client) CreateRoom(ctx context.Context, room models.RoomCreate) (models.Room, error) {
	var created models.Room
	err := c.post(ctx, "/admin/settings/room/create", room, &created)
	return created, err
}

func (c *Client) UpdateRoom(ctx context.Context, room models.Room) (models.Room, error) {
	var updated models.Room
	err := c.post(ctx, "/admin/settings/room/update", room, &updated)
	return updated, err
}

func (c *Client) DeleteRoom(ctx context.Context, roomID string) error {
	return c.postQuery(ctx, "/admin/settings/room/delete", url.Values{"roomId": {roomID}})
}

// Teams

func (c *Client) AllTeams(ctx context.Context) ([]models.Team, error) {
	return getList[models.Team](ctx, c, "/admin/settings/team/getAll")
}

func (c *Client) TeamByID(ctx context.Context, teamID string) (models.Team, error) {
	var team models.Team
	err := c.do(ctx, http.MethodGet, "/admin/settings/team/getById", url.Values{"teamId": {teamID}}, nil, &team)
	return team, err
}

func (c *Client) CreateTeam(ctx context.Context, team models.TeamCreate) (models.Team, error) {
	var created models.Team
	err := c.post(ctx, "/admin/settings/team/createTeam", team, &created)
	return created, err
}

func (c *Client) DeleteTeam(ctx context.Context, teamID string) error {
	return c.postQuery(ctx, "/admin/settings/team/deleteTeam", url.Values{"teamId": {teamID}})
}

// UpdateTeamRoom reassigns a team to a room.
func (c *Client) UpdateTeamRoom(ctx context.Context, teamID, roomID string) (models.Team, error) {
	var updated models.Team
	err := c.do(ctx, http.MethodPost, "/admin/settings/team/updateTeamRoom",
		url.Values{"teamId": {teamID}, "roomId": {roomID}}, nil, &updated)
	return updated, err
}

// Problem balloon maps

func (c *Client) ProblemBalloonMaps(ctx context.Context) ([]models.ProblemBalloonMap, error) {
	return getList[models.ProblemBalloonMap](ctx, c, "/admin/settings/ProblemBalloonMap/getAll")
}

func (c *Client) CreateProblemBalloonMap(ctx context.Context, m models.ProblemBalloonMap) (models.ProblemBalloonMap, error) {
	var created models.ProblemBalloonMap
	err := c.post(ctx, "/admin/settings/ProblemBalloonMap/create", m, &created)
	return created, err
}

func (c *Client) UpdateProblemBalloonMap(ctx context.Context, m models.ProblemBalloonMap) (models.ProblemBalloonMap, error) {
	var updated models.ProblemBalloonMap
	err := c.post(ctx, "/admin/settings/ProblemBalloonMap/update", m, &updated)
	return updated, err
}

func (c *Client) DeleteProblemBalloonMap(ctx context.Context, id string) error {
	return c.postQuery(ctx, "/admin/settings/ProblemBalloonMap/delete", url.Values{"id": {id}})
}
