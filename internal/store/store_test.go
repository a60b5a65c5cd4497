package store

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relo-assistant/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	n := 0
	var mu sync.Mutex
	return New(nil,
		WithClock(func() time.Time { return time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func(prefix string) string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("%s_%d", prefix, n)
		}),
	)
}

func TestNewStartsWithGeneralThread(t *testing.T) {
	s := newTestStore(t)
	threads := s.Threads()
	require.Len(t, threads, 1)
	assert.Equal(t, domain.GeneralThreadID, threads[0].ID)
	assert.Equal(t, "General Planning", threads[0].Title)
	assert.Equal(t, domain.GeneralThreadID, s.ActiveThreadID())
}

func TestAppendMessage(t *testing.T) {
	s := newTestStore(t)

	m := s.AppendMessage(domain.RoleUser, "<b>hello</b>", "")
	assert.Equal(t, domain.GeneralThreadID, m.ThreadID)
	assert.Equal(t, "<b>hello</b>", m.Text, "text must be stored verbatim")
	assert.False(t, m.CreatedAt.IsZero())

	th, _ := s.Thread(domain.GeneralThreadID)
	assert.Equal(t, "hello", th.LastMessagePreview)
	assert.Equal(t, 0, th.UnreadCount, "active thread never accumulates unread")
}

func TestUnreadCountInvariant(t *testing.T) {
	s := newTestStore(t)
	pets, err := s.CreateThread(domain.ServicePets, "")
	require.NoError(t, err)
	shipping, err := s.CreateThread(domain.ServiceShipping, "")
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		s.AppendMessage(domain.RoleAssistant, "msg", pets.ID)
		th, _ := s.Thread(pets.ID)
		assert.Equal(t, i, th.UnreadCount)
	}
	s.AppendMessage(domain.RoleAssistant, "msg", shipping.ID)

	require.NoError(t, s.SwitchToThread(pets.ID))
	th, _ := s.Thread(pets.ID)
	assert.Equal(t, 0, th.UnreadCount)
	other, _ := s.Thread(shipping.ID)
	assert.Equal(t, 1, other.UnreadCount, "switching must not touch other threads")

	s.AppendMessage(domain.RoleAssistant, "msg", pets.ID)
	th, _ = s.Thread(pets.ID)
	assert.Equal(t, 0, th.UnreadCount)
}

func TestSwitchToUnknownThread(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.SwitchToThread("nope"), ErrThreadNotFound)
	assert.Equal(t, domain.GeneralThreadID, s.ActiveThreadID())
}

func TestCreateThreadDuplicate(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateThread(domain.ServiceGeneral, "")
	assert.ErrorIs(t, err, ErrDuplicateService)

	th, err := s.CreateThread(domain.ServiceHousing, "Custom")
	require.NoError(t, err)
	assert.Equal(t, "Custom", th.Title)
	assert.Equal(t, "🏡", th.Avatar)
	_, err = s.CreateThread(domain.ServiceHousing, "")
	assert.ErrorIs(t, err, ErrDuplicateService)
}

func TestGetOrCreateServiceThreadGreetsOnce(t *testing.T) {
	s := newTestStore(t)
	var greeted []string
	s.SetGreeter(func(service domain.ServiceCategory, threadID string) {
		greeted = append(greeted, string(service)+":"+threadID)
		s.AppendMessage(domain.RoleAssistant, "hi from "+string(service), threadID)
	})

	a, created := s.GetOrCreateServiceThread(domain.ServiceShipping)
	assert.True(t, created)
	b, created := s.GetOrCreateServiceThread(domain.ServiceShipping)
	assert.False(t, created)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, []string{"shipping:" + a.ID}, greeted)
	assert.Len(t, s.Messages(a.ID), 1)
}

func TestGetOrCreateWithoutGreeterFallsBack(t *testing.T) {
	s := newTestStore(t)
	th, _ := s.GetOrCreateServiceThread(domain.ServiceFinance)
	msgs := s.Messages(th.ID)
	require.Len(t, msgs, 1)
	assert.Equal(t, "How can I help you with Finance & Banking?", msgs[0].Text)
}

func TestUpsertStepIdempotent(t *testing.T) {
	s := newTestStore(t)
	step := domain.TimelineStep{
		ID:     "BookingSummary_x",
		Kind:   domain.StepBookingSummary,
		Status: domain.StatusInProgress,
		Data:   domain.BookingSummaryData{Hotel: domain.HotelOption{ID: "h4", Price: 195}},
	}
	s.UpsertStep(step)
	first := s.Steps()
	s.UpsertStep(step)
	second := s.Steps()
	assert.Equal(t, first, second)
	require.Len(t, second, 1)
	assert.False(t, second[0].CreatedAt.IsZero(), "new steps get a default timestamp")
}

func TestUpsertStepMerges(t *testing.T) {
	s := newTestStore(t)
	created, err := s.UpsertStep(domain.TimelineStep{
		ID:             s.NewStepID(domain.StepHTMLCard),
		Kind:           domain.StepHTMLCard,
		AfterMessageID: "m_1",
		Data:           domain.HTMLCardData{HTML: "searching"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, created.Status)
	assert.NotEmpty(t, created.ID)

	merged, err := s.UpsertStep(domain.TimelineStep{ID: created.ID, Status: domain.StatusCompleted, Data: domain.HTMLCardData{HTML: "done"}})
	require.NoError(t, err)
	assert.Equal(t, "m_1", merged.AfterMessageID, "unspecified fields persist")
	assert.Equal(t, domain.StepHTMLCard, merged.Kind)
	assert.Equal(t, "done", merged.Data.(domain.HTMLCardData).HTML)
}

func TestUpsertStepRequiresID(t *testing.T) {
	s := newTestStore(t)
	step := domain.TimelineStep{Kind: domain.StepGenericText, Data: domain.GenericTextData{Text: "x"}}

	_, err := s.UpsertStep(step)
	assert.ErrorIs(t, err, ErrStepIDRequired)
	_, err = s.UpsertStep(step)
	assert.ErrorIs(t, err, ErrStepIDRequired)
	assert.Empty(t, s.Steps(), "a retried id-less step must not pile up")
}

func TestCompleteStep(t *testing.T) {
	s := newTestStore(t)
	s.CompleteStep("missing")
	assert.Empty(t, s.Steps())

	st, err := s.UpsertStep(domain.TimelineStep{ID: s.NewStepID(domain.StepGenericText), Data: domain.GenericTextData{Text: "x"}})
	require.NoError(t, err)
	s.CompleteStep(st.ID)
	s.CompleteStep(st.ID)
	got, ok := s.Step(st.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Len(t, s.Steps(), 1)
}

func TestLatestStep(t *testing.T) {
	s := newTestStore(t)
	_, ok := s.LatestStep(domain.StepBookingSummary)
	assert.False(t, ok)
	s.UpsertStep(domain.TimelineStep{ID: "a", Kind: domain.StepBookingSummary})
	s.UpsertStep(domain.TimelineStep{ID: "b", Kind: domain.StepBookingSummary})
	s.UpsertStep(domain.TimelineStep{ID: "c", Kind: domain.StepConfirmation})
	got, ok := s.LatestStep(domain.StepBookingSummary)
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)
}

func TestRelocationPlanMergesThroughStore(t *testing.T) {
	a := newTestStore(t)
	_, ok := a.Plan()
	assert.False(t, ok, "plan is absent until the first update")

	a.UpdateRelocationPlan(domain.RelocationPlan{HouseholdSize: domain.Ptr(1)})
	a.UpdateRelocationPlan(domain.RelocationPlan{MoveType: domain.Ptr("local")})

	b := newTestStore(t)
	b.UpdateRelocationPlan(domain.RelocationPlan{HouseholdSize: domain.Ptr(1), MoveType: domain.Ptr("local")})

	pa, _ := a.Plan()
	pb, _ := b.Plan()
	assert.Equal(t, pb, pa)
}

func TestAppendSpecialRequirement(t *testing.T) {
	s := newTestStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AppendSpecialRequirement(fmt.Sprintf("req-%d", i))
		}(i)
	}
	wg.Wait()
	p, _ := s.Plan()
	assert.Len(t, p.SpecialRequirements, 20)
}

func TestSubscribe(t *testing.T) {
	s := newTestStore(t)
	events, cancel := s.Subscribe()

	s.AppendMessage(domain.RoleUser, "hello", "")
	ev := <-events
	assert.Equal(t, EventMessageAppended, ev.Type)
	require.NotNil(t, ev.Message)
	assert.Equal(t, "hello", ev.Message.Text)
	ev = <-events
	assert.Equal(t, EventThreadUpdated, ev.Type)

	cancel()
	cancel()
	_, open := <-events
	assert.False(t, open)
}

func TestSubscribeDropsWhenFull(t *testing.T) {
	s := newTestStore(t)
	_, cancel := s.Subscribe()
	defer cancel()
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			s.AppendMessage(domain.RoleUser, strings.Repeat("x", i), "")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("store blocked on a slow subscriber")
	}
}

func TestSetWorkflowStep(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.SetWorkflowStep("nope", "x"), ErrThreadNotFound)
	require.NoError(t, s.SetWorkflowStep(domain.GeneralThreadID, "done"))
	th, _ := s.Thread(domain.GeneralThreadID)
	assert.Equal(t, "done", th.WorkflowStep)
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newTestStore(t)
	s.AppendMessage(domain.RoleUser, "one", "")
	snap := s.Snapshot()
	s.AppendMessage(domain.RoleUser, "two", "")
	assert.Len(t, snap.Messages, 1)
	assert.Nil(t, snap.Plan)
	assert.Equal(t, domain.GeneralThreadID, snap.ActiveThreadID)
}
