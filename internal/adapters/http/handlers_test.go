package httpadapter

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/tacticsfeed/internal/catalog"
	"svw.info/tacticsfeed/internal/feed"
	"svw.info/tacticsfeed/internal/infrastructure/storage"
	"svw.info/tacticsfeed/internal/onboarding"
	"svw.info/tacticsfeed/internal/rules"
	"svw.info/tacticsfeed/internal/usecase"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	defs, err := catalog.Load()
	require.NoError(t, err)
	fc := feed.NewController(defs, rules.NewFactory(nil), feed.Config{
		InitialPages: 2,
		AdvanceDelay: 5 * time.Millisecond,
	}, nil)
	uc := usecase.NewService(fc, onboarding.NewGate(storage.NewMemory(), nil), nil)
	mux := http.NewServeMux()
	New(uc).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any, out any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res
}

func openSession(t *testing.T, srv *httptest.Server) feedResp {
	t.Helper()
	var resp feedResp
	res := postJSON(t, srv.URL+"/api/session", map[string]any{}, &resp)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotEmpty(t, resp.SessionID)
	return resp
}

func TestSessionAndFeed(t *testing.T) {
	srv := newTestServer(t)
	sess := openSession(t, srv)

	require.Len(t, sess.Pages, 2)
	assert.Equal(t, "scholars-mate-0", sess.Pages[0].ID)
	assert.Equal(t, 0, sess.CurrentIndex)
	assert.Equal(t, "not_started", string(sess.Pages[0].State))
	assert.Nil(t, sess.Pages[0].LastMoveCorrect)

	res, err := http.Get(srv.URL + "/api/feed?session=" + sess.SessionID)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var fr feedResp
	require.NoError(t, json.NewDecoder(res.Body).Decode(&fr))
	assert.Len(t, fr.Pages, 2)
}

func TestFeedUnknownSession(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/api/feed?session=nope")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestSessionWrongMethod(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/api/session")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestPlayCorrectMove(t *testing.T) {
	srv := newTestServer(t)
	sess := openSession(t, srv)

	var mr moveResp
	res := postJSON(t, srv.URL+"/api/move", moveReq{
		Session: sess.SessionID, Index: 0, From: "h5", To: "f7",
	}, &mr)
	require.Equal(t, http.StatusOK, res.StatusCode)

	require.NotNil(t, mr.Correct)
	assert.True(t, *mr.Correct)
	assert.True(t, mr.Solved)
	assert.True(t, mr.Capture)
	require.NotNil(t, mr.AdvanceTo)
	assert.Equal(t, 1, *mr.AdvanceTo)
	assert.Equal(t, "solved", string(mr.Page.State))
	require.NotNil(t, mr.Page.LastMoveCorrect)
	assert.True(t, *mr.Page.LastMoveCorrect)
}

func TestPlayWrongMove(t *testing.T) {
	srv := newTestServer(t)
	sess := openSession(t, srv)

	var mr moveResp
	res := postJSON(t, srv.URL+"/api/move", moveReq{
		Session: sess.SessionID, Index: 0, From: "d2", To: "d4",
	}, &mr)
	require.Equal(t, http.StatusOK, res.StatusCode)

	require.NotNil(t, mr.Correct)
	assert.False(t, *mr.Correct)
	assert.False(t, mr.Solved)
	require.NotNil(t, mr.AdvanceTo, "a wrong move still moves the feed on")
	assert.Equal(t, "failed", string(mr.Page.State))
}

func TestPlayIllegalMove(t *testing.T) {
	srv := newTestServer(t)
	sess := openSession(t, srv)

	res := postJSON(t, srv.URL+"/api/move", moveReq{
		Session: sess.SessionID, Index: 0, From: "a1", To: "a5",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestLegalMovesEndpoint(t *testing.T) {
	srv := newTestServer(t)
	sess := openSession(t, srv)

	var mv movesResp
	res := postJSON(t, srv.URL+"/api/moves", movesReq{
		Session: sess.SessionID, Index: 0, From: "h5",
	}, &mv)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, mv.Moves)

	// empty square degrades to an empty list, not an error
	res = postJSON(t, srv.URL+"/api/moves", movesReq{
		Session: sess.SessionID, Index: 0, From: "a5",
	}, &mv)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, mv.Moves)
}

func TestHintEndpoint(t *testing.T) {
	srv := newTestServer(t)
	sess := openSession(t, srv)

	var hr hintResp
	res := postJSON(t, srv.URL+"/api/hint", hintReq{Session: sess.SessionID, Index: 0}, &hr)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.True(t, hr.Found)
	assert.Equal(t, "h5", string(hr.Hint.From))
}

func TestReactionEndpoints(t *testing.T) {
	srv := newTestServer(t)
	sess := openSession(t, srv)
	id := sess.Pages[0].ID

	var lr likeResp
	postJSON(t, srv.URL+"/api/like", reactionReq{Session: sess.SessionID, ID: id}, &lr)
	assert.True(t, lr.Liked)
	assert.True(t, lr.Celebrate)

	postJSON(t, srv.URL+"/api/like", reactionReq{Session: sess.SessionID, ID: id}, &lr)
	assert.False(t, lr.Liked)
	assert.False(t, lr.Celebrate)

	var sr starResp
	postJSON(t, srv.URL+"/api/star", reactionReq{Session: sess.SessionID, ID: id}, &sr)
	assert.True(t, sr.Starred)

	res := postJSON(t, srv.URL+"/api/star", reactionReq{Session: sess.SessionID, ID: "missing"}, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestViewEndpointGrowsFeed(t *testing.T) {
	srv := newTestServer(t)
	sess := openSession(t, srv)

	var vr viewResp
	res := postJSON(t, srv.URL+"/api/view", viewReq{Session: sess.SessionID, Index: 1}, &vr)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 1, vr.CurrentIndex)

	feedRes, err := http.Get(srv.URL + "/api/feed?session=" + sess.SessionID)
	require.NoError(t, err)
	defer feedRes.Body.Close()
	var fr feedResp
	require.NoError(t, json.NewDecoder(feedRes.Body).Decode(&fr))
	assert.Greater(t, len(fr.Pages), 2)
}

func TestOnboardingEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var or onboardingResp
	res, err := http.Get(srv.URL + "/api/onboarding")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(res.Body).Decode(&or))
	res.Body.Close()
	assert.False(t, or.Completed)

	postJSON(t, srv.URL+"/api/onboarding/complete", map[string]any{}, &or)
	assert.True(t, or.Completed)

	res, err = http.Get(srv.URL + "/api/onboarding")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(res.Body).Decode(&or))
	res.Body.Close()
	assert.True(t, or.Completed)
}

func TestBadJSONRejected(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Post(srv.URL+"/api/move", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
