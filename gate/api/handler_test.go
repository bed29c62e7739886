package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Futarimiti/riichi-hairi/common/cache"
	hhttp "github.com/Futarimiti/riichi-hairi/common/http"
	"github.com/Futarimiti/riichi-hairi/core/domain/entity"
	"github.com/Futarimiti/riichi-hairi/core/domain/repository"
	"github.com/Futarimiti/riichi-hairi/core/infrastructure/persistence"
	"github.com/Futarimiti/riichi-hairi/framework/game"
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

// memoryRecords 内存版存档仓储
type memoryRecords struct {
	mu      sync.Mutex
	records map[string]*entity.SessionRecord
}

func newMemoryRecords() *memoryRecords {
	return &memoryRecords{records: make(map[string]*entity.SessionRecord)}
}

func (m *memoryRecords) Save(_ context.Context, record *entity.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = record
	return nil
}

func (m *memoryRecords) FindByID(_ context.Context, id string) (*entity.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return record, nil
}

func (m *memoryRecords) List(_ context.Context, limit, offset int) ([]*entity.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]*entity.SessionRecord, 0, len(m.records))
	for _, r := range m.records {
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if offset >= len(list) {
		return []*entity.SessionRecord{}, nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// recordingPublisher 记录推送过的房间
type recordingPublisher struct {
	mu    sync.Mutex
	rooms []string
}

func (p *recordingPublisher) Publish(roomID string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rooms = append(p.rooms, roomID)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// APIResponse 用于解析响应体
type APIResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testSnapshot struct {
	Mode      string         `json:"mode"`
	Players   int            `json:"players"`
	Phase     string         `json:"phase"`
	Wall      map[string]int `json:"wall"`
	Remaining int            `json:"remaining"`
	Hand      string         `json:"hand"`
	History   int            `json:"history"`
	Result    *struct {
		Shanten int `json:"shanten"`
	} `json:"result"`
}

type testSession struct {
	ID       string        `json:"id"`
	Snapshot *testSnapshot `json:"snapshot"`
}

type testOutcome struct {
	Snapshot *testSnapshot `json:"snapshot"`
	Result   *struct {
		Shanten int `json:"shanten"`
	} `json:"result"`
	Waiting *struct {
		Shanten int      `json:"shanten"`
		Accepts []string `json:"accepts"`
		Ukeire  int      `json:"ukeire"`
	} `json:"waiting"`
}

func setupTestServer(t *testing.T, records repository.SessionRecordRepository) (*hhttp.HttpServer, *recordingPublisher) {
	t.Helper()
	rules := mahjong.Rules{Players: mahjong.FourPlayer}
	rooms := game.NewRoomManager(rules, nil)
	pub := &recordingPublisher{}
	h := NewHandler(Deps{
		Rooms:     rooms,
		Monitor:   game.NewMonitor(rooms, 0, 0),
		Records:   records,
		Publisher: pub,
		Rules:     rules,
	})
	server := hhttp.NewHttpServer(hhttp.WithMode("test"))
	RegisterRoutes(server, h)
	return server, pub
}

func doRequest(t *testing.T, server http.Handler, method, path string, body any) (int, APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return w.Code, resp
}

func decode[T any](t *testing.T, resp APIResponse) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v
}

func createSession(t *testing.T, server http.Handler, players int) testSession {
	t.Helper()
	status, resp := doRequest(t, server, http.MethodPost, "/api/v1/sessions", map[string]any{"players": players})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, hhttp.CodeSuccess, resp.Code)
	return decode[testSession](t, resp)
}

func command(t *testing.T, server http.Handler, id, line string) (int, APIResponse) {
	t.Helper()
	return doRequest(t, server, http.MethodPost, "/api/v1/sessions/"+id+"/commands", map[string]string{"command": line})
}

func TestPingHandler(t *testing.T) {
	server, _ := setupTestServer(t, persistence.DisabledRepository{})
	status, resp := doRequest(t, server, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hhttp.CodeSuccess, resp.Code)
}

func TestHealthHandler(t *testing.T) {
	server, _ := setupTestServer(t, persistence.DisabledRepository{})
	createSession(t, server, 4)

	status, resp := doRequest(t, server, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, status)
	if resp.Code != hhttp.CodeSuccess {
		t.Skipf("load sampling unavailable: %s", resp.Message)
	}
	health := decode[struct {
		Healthy bool `json:"healthy"`
		Load    struct {
			Rooms int `json:"rooms"`
		} `json:"load"`
	}](t, resp)
	assert.True(t, health.Healthy)
	assert.Equal(t, 1, health.Load.Rooms)
}

func TestHealthHandler_MemoHits(t *testing.T) {
	memo, err := cache.NewGeneralCache(1<<10, 0, 0)
	require.NoError(t, err)
	defer memo.Close()

	rules := mahjong.Rules{Players: mahjong.FourPlayer}
	rooms := game.NewRoomManager(rules, memo)
	server := hhttp.NewHttpServer(hhttp.WithMode("test"))
	RegisterRoutes(server, NewHandler(Deps{Rooms: rooms, Monitor: game.NewMonitor(rooms, 0, 0), Records: persistence.DisabledRepository{}, Rules: rules, Memo: memo}))

	status, resp := doRequest(t, server, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, status)
	if resp.Code != hhttp.CodeSuccess {
		t.Skipf("load sampling unavailable: %s", resp.Message)
	}
	health := decode[map[string]any](t, resp)
	assert.Contains(t, health, "memoHits")
}

func TestAnalyzeHandler(t *testing.T) {
	server, _ := setupTestServer(t, persistence.DisabledRepository{})

	t.Run("complete hand", func(t *testing.T) {
		status, resp := doRequest(t, server, http.MethodPost, "/api/v1/analyze", map[string]any{"hand": "123456789m11p234s"})
		require.Equal(t, http.StatusOK, status)
		out := decode[testOutcome](t, resp)
		require.NotNil(t, out.Result)
		assert.Equal(t, -1, out.Result.Shanten)
	})

	t.Run("waiting hand", func(t *testing.T) {
		status, resp := doRequest(t, server, http.MethodPost, "/api/v1/analyze", map[string]any{"hand": "123456789m11p22s"})
		require.Equal(t, http.StatusOK, status)
		out := decode[testOutcome](t, resp)
		require.NotNil(t, out.Waiting)
		assert.Equal(t, 0, out.Waiting.Shanten)
		assert.Equal(t, []string{"1p", "2s"}, out.Waiting.Accepts)
		assert.Equal(t, 4, out.Waiting.Ukeire)
	})

	t.Run("bad notation", func(t *testing.T) {
		status, resp := doRequest(t, server, http.MethodPost, "/api/v1/analyze", map[string]any{"hand": "123x"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, CodeInvalidNotation, resp.Code)
	})

	t.Run("bad player count", func(t *testing.T) {
		status, resp := doRequest(t, server, http.MethodPost, "/api/v1/analyze", map[string]any{"hand": "11m", "players": 5})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, CodeInvalidPlayerConf, resp.Code)
	})

	t.Run("missing hand", func(t *testing.T) {
		status, resp := doRequest(t, server, http.MethodPost, "/api/v1/analyze", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, hhttp.CodeInvalidParam, resp.Code)
	})
}

func TestSessionFlow(t *testing.T) {
	server, pub := setupTestServer(t, persistence.DisabledRepository{})

	sess := createSession(t, server, 4)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "interactive", sess.Snapshot.Mode)
	assert.Equal(t, "wait-to-init", sess.Snapshot.Phase)
	assert.Equal(t, 136, sess.Snapshot.Remaining)

	status, resp := command(t, server, sess.ID, "=123m456p789s12z55z")
	require.Equal(t, http.StatusOK, status)
	out := decode[testOutcome](t, resp)
	assert.Equal(t, "lack-one", out.Snapshot.Phase)
	assert.Nil(t, out.Snapshot.Result)

	status, resp = command(t, server, sess.ID, "+5z")
	require.Equal(t, http.StatusOK, status)
	out = decode[testOutcome](t, resp)
	assert.Equal(t, "full", out.Snapshot.Phase)
	require.NotNil(t, out.Snapshot.Result)
	assert.Equal(t, 1, out.Snapshot.Wall["5z"])

	status, resp = doRequest(t, server, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/undo", nil)
	require.Equal(t, http.StatusOK, status)
	out = decode[testOutcome](t, resp)
	assert.Equal(t, "lack-one", out.Snapshot.Phase)
	assert.Equal(t, 1, out.Snapshot.History)

	status, resp = doRequest(t, server, http.MethodGet, "/api/v1/sessions/"+sess.ID+"/history", nil)
	require.Equal(t, http.StatusOK, status)
	history := decode[[]struct {
		Notation string `json:"notation"`
	}](t, resp)
	require.Len(t, history, 1)
	assert.Equal(t, "=123m456p789s12555z", history[0].Notation)

	status, _ = doRequest(t, server, http.MethodGet, "/api/v1/sessions/"+sess.ID, nil)
	assert.Equal(t, http.StatusOK, status)

	pub.mu.Lock()
	assert.Len(t, pub.rooms, 3)
	pub.mu.Unlock()

	status, _ = doRequest(t, server, http.MethodDelete, "/api/v1/sessions/"+sess.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	status, resp = doRequest(t, server, http.MethodGet, "/api/v1/sessions/"+sess.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CodeSessionNotFound, resp.Code)
}

func TestCommandHandler_ErrorCodes(t *testing.T) {
	server, _ := setupTestServer(t, persistence.DisabledRepository{})
	sess := createSession(t, server, 3)

	status, _ := command(t, server, sess.ID, "=19m123456789p11s")
	require.Equal(t, http.StatusOK, status)

	cases := []struct {
		line string
		code int
	}{
		{"+3m", CodeIllegalTile},
		{"-7z", CodeIllegalPhase},
		{">777z", CodeTileNotInHand},
		{">12p", CodeIllegalMeldShape},
		{"%%", CodeUnknownCommand},
		{"+1x", CodeInvalidNotation},
	}
	for _, tc := range cases {
		status, resp := command(t, server, sess.ID, tc.line)
		assert.Equal(t, http.StatusBadRequest, status, tc.line)
		assert.Equal(t, tc.code, resp.Code, tc.line)
	}

	status, resp := command(t, server, "missing", "+1m")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CodeSessionNotFound, resp.Code)
}

func TestUndoHandler_EmptyHistoryAndModeViolation(t *testing.T) {
	server, _ := setupTestServer(t, persistence.DisabledRepository{})

	sess := createSession(t, server, 4)
	status, resp := doRequest(t, server, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/undo", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeEmptyHistory, resp.Code)

	status, resp = doRequest(t, server, http.MethodPost, "/api/v1/sessions", map[string]any{"interactive": false})
	require.Equal(t, http.StatusOK, status)
	normal := decode[testSession](t, resp)
	assert.Equal(t, "normal", normal.Snapshot.Mode)

	status, resp = command(t, server, normal.ID, "+1m")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeModeViolation, resp.Code)
}

func TestRecordHandlers_StoreDisabled(t *testing.T) {
	server, _ := setupTestServer(t, persistence.DisabledRepository{})
	sess := createSession(t, server, 4)

	status, resp := doRequest(t, server, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/records", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, CodeStoreDisabled, resp.Code)

	status, resp = doRequest(t, server, http.MethodGet, "/api/v1/records", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, CodeStoreDisabled, resp.Code)
}

func TestRecordHandlers_SaveAndReplay(t *testing.T) {
	records := newMemoryRecords()
	server, _ := setupTestServer(t, records)
	sess := createSession(t, server, 3)

	for _, line := range []string{"=19m123456789p11s", "+1z", "-1z", "*!-9p"} {
		status, resp := command(t, server, sess.ID, line)
		require.Equal(t, http.StatusOK, status, "%s: %s", line, resp.Message)
	}

	status, resp := doRequest(t, server, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/records", nil)
	require.Equal(t, http.StatusOK, status)
	saved := decode[entity.SessionRecord](t, resp)
	assert.Equal(t, 3, saved.Players)
	assert.Len(t, saved.Notations, 4)
	assert.Equal(t, "lack-one", saved.Phase)

	status, resp = doRequest(t, server, http.MethodGet, "/api/v1/records/"+saved.ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, saved.ID, decode[entity.SessionRecord](t, resp).ID)

	status, resp = doRequest(t, server, http.MethodGet, "/api/v1/records?page=1&size=10", nil)
	require.Equal(t, http.StatusOK, status)
	page := decode[struct {
		List []entity.SessionRecord `json:"list"`
		Page int                    `json:"page"`
		Size int                    `json:"size"`
	}](t, resp)
	assert.Len(t, page.List, 1)
	assert.Equal(t, 10, page.Size)

	status, _ = doRequest(t, server, http.MethodGet, "/api/v1/records?size=1000", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = doRequest(t, server, http.MethodPost, "/api/v1/records/"+saved.ID+"/replay", nil)
	require.Equal(t, http.StatusOK, status)
	replayed := decode[testSession](t, resp)
	assert.NotEqual(t, sess.ID, replayed.ID)

	status, resp = doRequest(t, server, http.MethodGet, "/api/v1/sessions/"+sess.ID, nil)
	require.Equal(t, http.StatusOK, status)
	original := decode[testSession](t, resp)
	assert.Equal(t, original.Snapshot.Hand, replayed.Snapshot.Hand)
	assert.Equal(t, original.Snapshot.Wall, replayed.Snapshot.Wall)
	assert.Equal(t, 4, replayed.Snapshot.History)

	status, resp = doRequest(t, server, http.MethodGet, "/api/v1/records/unknown", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, hhttp.CodeNotFound, resp.Code)
}

func TestReplayHandler_BrokenRecordDropsRoom(t *testing.T) {
	records := newMemoryRecords()
	broken := entity.NewSessionRecord(4, []string{"=123m456p789s12z55z", "-9m"}, "", "")
	require.NoError(t, records.Save(context.Background(), broken))

	rules := mahjong.Rules{Players: mahjong.FourPlayer}
	rooms := game.NewRoomManager(rules, nil)
	server := hhttp.NewHttpServer(hhttp.WithMode("test"))
	RegisterRoutes(server, NewHandler(Deps{Rooms: rooms, Monitor: game.NewMonitor(rooms, 0, 0), Records: records, Rules: rules}))

	status, resp := doRequest(t, server, http.MethodPost, "/api/v1/records/"+broken.ID+"/replay", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeIllegalPhase, resp.Code)
	assert.Equal(t, 0, rooms.GetStats())
}
