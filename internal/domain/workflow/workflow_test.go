package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/pkg/apperror"
)

func TestStartOnlyFromNotStarted(t *testing.T) {
	require.NoError(t, CanStart(""))
	require.NoError(t, CanStart(enum.WorkflowStatusNotStarted))
	require.True(t, apperror.IsKind(CanStart(enum.WorkflowStatusInProgress), apperror.KindAlreadyStarted))
	require.True(t, apperror.IsKind(CanStart(enum.WorkflowStatusCompleted), apperror.KindAlreadyStarted))
}

func TestCompleteOnlyFromInProgress(t *testing.T) {
	require.NoError(t, CanComplete(enum.WorkflowStatusInProgress))

	err := CanComplete("")
	require.True(t, apperror.IsKind(err, apperror.KindNotStarted))
	require.Equal(t, "not_started", apperror.GetAppError(err).Context["status"])

	require.True(t, apperror.IsKind(CanComplete(enum.WorkflowStatusNotStarted), apperror.KindNotStarted))
	require.True(t, apperror.IsKind(CanComplete(enum.WorkflowStatusCompleted), apperror.KindNotStarted))
}

func TestStatusesOnlyMoveForward(t *testing.T) {
	seq := []enum.WorkflowStatus{enum.WorkflowStatusNotStarted, enum.WorkflowStatusInProgress, enum.WorkflowStatusCompleted}
	for i := 1; i < len(seq); i++ {
		require.True(t, seq[i-1].Before(seq[i]))
		require.False(t, seq[i].Before(seq[i-1]))
	}
}

func TestSectionOrder(t *testing.T) {
	require.Equal(t, "", PreviousSection(SectionReceive))
	require.Equal(t, SectionSort, PreviousSection(SectionWash))
	require.Equal(t, "", PreviousSection("dry-clean"))

	require.NoError(t, CheckOrder(false, SectionSort, ""))
	require.NoError(t, CheckOrder(true, "", ""))
	require.NoError(t, CheckOrder(true, SectionSort, enum.WorkflowStatusCompleted))

	err := CheckOrder(true, SectionSort, enum.WorkflowStatusInProgress)
	require.True(t, apperror.IsKind(err, apperror.KindSectionOrderViolation))
	require.Equal(t, SectionSort, apperror.GetAppError(err).Context["previous_section"])
}

func TestDefaultSectionsAreOrdered(t *testing.T) {
	sections := DefaultSections()

	require.Len(t, sections, 4)
	for i, s := range sections {
		require.Equal(t, i+1, s.Position)
	}
	sections[0].Code = "changed"
	require.Equal(t, SectionReceive, DefaultSections()[0].Code)
}

func TestIsPending(t *testing.T) {
	require.True(t, IsPending(""))
	require.True(t, IsPending(enum.WorkflowStatusInProgress))
	require.False(t, IsPending(enum.WorkflowStatusCompleted))
}
