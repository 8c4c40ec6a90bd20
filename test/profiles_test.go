//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/mm2kbench/internal/mm2k"
	"github.com/2beens/mm2kbench/internal/profiles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestProgram() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var resp profiles.ProgramResponse
	s.doJSON(ctx, http.MethodGet, "/api/program", "", http.StatusOK, &resp)
	assert.Equal(t, 14, resp.SessionsCount)
	assert.Len(t, resp.Sessions, 14)
}

func (s *IntegrationTestSuite) TestFailureTestFlow() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const key = "it-crew"
	base := "/api/profiles/" + key

	var athlete mm2k.Athlete
	s.doJSON(ctx, http.MethodPost, base+"/athletes",
		`{"name":"Mila","oneRmKg":100,"rounding":2.5,"startDate":"2025-03-01"}`,
		http.StatusCreated, &athlete,
	)
	require.NotEmpty(t, athlete.ID)
	athleteBase := fmt.Sprintf("%s/athletes/%s", base, athlete.ID)

	var view profiles.SessionView
	s.doJSON(ctx, http.MethodGet, athleteBase+"/sessions/5", "", http.StatusOK, &view)
	assert.Equal(t, 5, view.SessionID)
	assert.NotEmpty(t, view.Rows)
	assert.False(t, view.Locked)

	s.doJSON(ctx, http.MethodPut, athleteBase+"/sessions/5/failure-reps", `{"reps":9}`, http.StatusOK, nil)

	var ft profiles.FailureResponse
	s.doJSON(ctx, http.MethodPost, athleteBase+"/sessions/5/failure", "", http.StatusOK, &ft)
	assert.Equal(t, mm2k.OutcomeGold, ft.Outcome)
	assert.Equal(t, 2.5, ft.Delta)
	assert.Equal(t, 102.5, ft.Athlete.WorkingRmKg)

	// a second confirmation is rejected
	s.doJSON(ctx, http.MethodPost, athleteBase+"/sessions/5/failure", "", http.StatusConflict, nil)

	// locked session rows cannot be logged
	s.doJSON(ctx, http.MethodPut, athleteBase+"/sessions/5/sets/0",
		`{"actualWeightKg":90,"actualReps":6}`, http.StatusLocked, nil,
	)

	var undone mm2k.Athlete
	s.doJSON(ctx, http.MethodDelete, athleteBase+"/sessions/5/failure", "", http.StatusOK, &undone)
	assert.Equal(t, 100.0, undone.WorkingRmKg)

	var done profiles.DoneResponse
	s.doJSON(ctx, http.MethodPost, athleteBase+"/sessions/1/done", "", http.StatusOK, &done)
	require.NotNil(t, done.Athlete.Logs[1])
	assert.True(t, done.Athlete.Logs[1].Done)

	var history profiles.HistoryResponse
	s.doJSON(ctx, http.MethodGet, base+"/history", "", http.StatusOK, &history)
	require.NotEmpty(t, history.Revisions)
	latest := history.Revisions[0].Rev

	var snapshot profiles.Profile
	s.doJSON(ctx, http.MethodGet, fmt.Sprintf("%s/history/%d", base, latest), "", http.StatusOK, &snapshot)
	assert.Equal(t, latest, snapshot.ProfileMeta.Rev)

	// the blobs landed in postgres
	var blobCount int
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM mm2k_blob WHERE pathname LIKE $1`, "profiles/"+key+"/%",
	).Scan(&blobCount))
	assert.Equal(t, latest+1, blobCount)
}

func (s *IntegrationTestSuite) TestUnknownProfile() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.doJSON(ctx, http.MethodGet, "/api/profiles/nobody-here", "", http.StatusNotFound, nil)
	s.doJSON(ctx, http.MethodGet, "/api/profiles/bad%20key", "", http.StatusBadRequest, nil)
}
