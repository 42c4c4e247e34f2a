package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/medagent-core/internal/domain/reports"
	"github.com/bryanwahyu/medagent-core/internal/infra/db/memory"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newService() (*Service, *fakeClock) {
	clock := &fakeClock{now: time.UnixMilli(1700000000000)}
	return &Service{Repo: memory.NewReportRepository(), Clock: clock}, clock
}

func validCommand() CreateCommand {
	return CreateCommand{
		PatientInfo:  "45-year-old male with chest pain",
		AgentResults: json.RawMessage(`[{"agent":"Dr. Gemma","analysis":"..."}]`),
		Summary:      "Integrated Summary:\n- Consensus: cardiac workup",
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	t.Run("missing patient info", func(t *testing.T) {
		cmd := validCommand()
		cmd.PatientInfo = "   "
		_, err := svc.Create(ctx, cmd)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, domain.CodeMissingPatientInfo, verr.Code)
		assert.Equal(t, "Patient info is required and must be a non-empty string", verr.Message)
	})

	t.Run("agent results not an array", func(t *testing.T) {
		for _, raw := range []json.RawMessage{
			nil,
			json.RawMessage(`null`),
			json.RawMessage(`"not-a-list"`),
			json.RawMessage(`{"agent":"x"}`),
			json.RawMessage(`[1,2`),
		} {
			cmd := validCommand()
			cmd.AgentResults = raw
			_, err := svc.Create(ctx, cmd)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr, "raw=%s", raw)
			assert.Equal(t, domain.CodeMissingAgentResults, verr.Code)
			assert.Equal(t, "Agent results is required and must be an array", verr.Message)
		}
	})

	t.Run("empty array is valid", func(t *testing.T) {
		cmd := validCommand()
		cmd.AgentResults = json.RawMessage(`[]`)
		rec, err := svc.Create(ctx, cmd)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(rec.AgentResults))
	})

	t.Run("missing summary", func(t *testing.T) {
		cmd := validCommand()
		cmd.Summary = "\n\t"
		_, err := svc.Create(ctx, cmd)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, domain.CodeMissingSummary, verr.Code)
		assert.Equal(t, "Summary is required and must be a non-empty string", verr.Message)
	})

	t.Run("patient info checked before agent results", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateCommand{})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, domain.CodeMissingPatientInfo, verr.Code)
	})
}

func TestCreateTrimsAndTimestamps(t *testing.T) {
	svc, clock := newService()
	title := "  ER triage  "

	cmd := validCommand()
	cmd.PatientInfo = "  " + cmd.PatientInfo + "  "
	cmd.Summary = "\n" + cmd.Summary + "\n"
	cmd.Title = &title

	rec, err := svc.Create(context.Background(), cmd)
	require.NoError(t, err)

	assert.Equal(t, "45-year-old male with chest pain", rec.PatientInfo)
	assert.Equal(t, "Integrated Summary:\n- Consensus: cardiac workup", rec.Summary)
	require.NotNil(t, rec.Title)
	assert.Equal(t, "ER triage", *rec.Title)
	assert.Equal(t, clock.now.UnixMilli(), rec.CreatedAt)
	assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)
	assert.Positive(t, int64(rec.ID))

	got, err := svc.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.PatientInfo, got.PatientInfo)
	assert.JSONEq(t, string(cmd.AgentResults), string(got.AgentResults))
}

func TestDeleteIsFinal(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, validCommand())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rec.ID))

	_, err = svc.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(ctx, rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListLimitClamp(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	for i := 0; i < 120; i++ {
		cmd := validCommand()
		cmd.PatientInfo = fmt.Sprintf("patient %d", i)
		_, err := svc.Create(ctx, cmd)
		require.NoError(t, err)
	}

	t.Run("default limit", func(t *testing.T) {
		page, err := svc.List(ctx, 0, nil)
		require.NoError(t, err)
		assert.Len(t, page.Items, 20)
	})

	t.Run("hard cap", func(t *testing.T) {
		page, err := svc.List(ctx, 1000, nil)
		require.NoError(t, err)
		assert.Len(t, page.Items, 100)
	})
}

func TestListEmptyStore(t *testing.T) {
	svc, _ := newService()

	page, err := svc.List(context.Background(), 10, nil)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Nil(t, page.NextCursor)
}

func TestListPaginationWalksEveryRowOnce(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	const total = 10
	for i := 0; i < total; i++ {
		_, err := svc.Create(ctx, validCommand())
		require.NoError(t, err)
	}

	seen := map[domain.ReportID]bool{}
	var cursor *domain.ReportID
	pages := 0
	for {
		page, err := svc.List(ctx, 3, cursor)
		require.NoError(t, err)
		pages++

		var prev domain.ReportID
		for i, item := range page.Items {
			assert.False(t, seen[item.ID], "id %d returned twice", item.ID)
			seen[item.ID] = true
			if i > 0 {
				assert.Less(t, item.ID, prev, "ids must descend within a page")
			}
			prev = item.ID
		}

		if page.NextCursor == nil {
			break
		}
		cursor = page.NextCursor
	}

	assert.Equal(t, 4, pages)
	assert.Len(t, seen, total)
}

func TestListNextCursorOnlyOnFullPage(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, validCommand())
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, 3, nil)
	require.NoError(t, err)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, page.Items[2].ID, *page.NextCursor)

	last, err := svc.List(ctx, 3, page.NextCursor)
	require.NoError(t, err)
	assert.Empty(t, last.Items)
	assert.Nil(t, last.NextCursor)
}

type failingArchive struct{}

func (failingArchive) Upload(context.Context, string, []byte, string) (string, error) {
	return "", errors.New("bucket offline")
}

func TestCreateArchiveFailureIsNotFatal(t *testing.T) {
	svc, _ := newService()
	svc.Archive = failingArchive{}

	rec, err := svc.Create(context.Background(), validCommand())
	require.NoError(t, err)
	assert.Positive(t, int64(rec.ID))
}

type capturingArchive struct {
	key         string
	contentType string
	body        []byte
}

func (a *capturingArchive) Upload(_ context.Context, key string, body []byte, contentType string) (string, error) {
	a.key, a.body, a.contentType = key, body, contentType
	return "https://example.test/" + key, nil
}

func TestCreateArchivesSnapshot(t *testing.T) {
	svc, _ := newService()
	arc := &capturingArchive{}
	svc.Archive = arc

	rec, err := svc.Create(context.Background(), validCommand())
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("reports/%d.json", rec.ID), arc.key)
	assert.Equal(t, "application/json", arc.contentType)

	var snapshot domain.StoredReport
	require.NoError(t, json.Unmarshal(arc.body, &snapshot))
	assert.Equal(t, rec.ID, snapshot.ID)
	assert.Equal(t, rec.Summary, snapshot.Summary)
}
