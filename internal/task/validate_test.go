package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarsync/service-api-go/internal/task/entity"
)

func validNew(now time.Time) NewTask {
	return NewTask{
		Title:          "Essay",
		Subject:        "Hist",
		DueDate:        now.Add(7 * 24 * time.Hour),
		AssignmentType: "homework",
		Priority:       "medium",
	}
}

func TestValidateNew(t *testing.T) {
	now := time.Now()

	require.NoError(t, validateNew(&NewTask{
		Title:          "Essay",
		Subject:        "Hist",
		DueDate:        now.Add(time.Hour),
		AssignmentType: "homework",
		Priority:       "medium",
	}, now))

	cases := []struct {
		name   string
		mutate func(*NewTask)
		want   error
	}{
		{"empty title", func(n *NewTask) { n.Title = "   " }, ErrTitleRequired},
		{"empty subject", func(n *NewTask) { n.Subject = "" }, ErrSubjectRequired},
		{"past due date", func(n *NewTask) { n.DueDate = now.Add(-time.Second) }, ErrDueDateNotInFuture},
		{"due date exactly now", func(n *NewTask) { n.DueDate = now }, ErrDueDateNotInFuture},
		{"bad assignment type", func(n *NewTask) { n.AssignmentType = "thesis" }, ErrInvalidEnumValue},
		{"bad priority", func(n *NewTask) { n.Priority = "urgent" }, ErrInvalidEnumValue},
		{"grade above range", func(n *NewTask) { g := 101.0; n.Grade = &g }, ErrGradeOutOfRange},
		{"grade below range", func(n *NewTask) { g := -0.5; n.Grade = &g }, ErrGradeOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validNew(now)
			tc.mutate(&in)
			assert.ErrorIs(t, validateNew(&in, now), tc.want)
		})
	}
}

func TestValidateNewGradeBoundaries(t *testing.T) {
	now := time.Now()
	for _, g := range []float64{0, 55.5, 100} {
		in := validNew(now)
		grade := g
		in.Grade = &grade
		assert.NoError(t, validateNew(&in, now), "grade %v", g)
	}
}

func TestValidateChangeset(t *testing.T) {
	now := time.Now()
	str := func(s string) *string { return &s }
	f64 := func(v float64) *float64 { return &v }

	assert.ErrorIs(t, validateChangeset(&entity.Changeset{}, now), ErrNoFieldsToUpdate)

	past := &entity.DueDate{Time: now.Add(-time.Second)}
	assert.ErrorIs(t, validateChangeset(&entity.Changeset{DueDate: past}, now), ErrDueDateNotInFuture)

	future := &entity.DueDate{Time: now.Add(time.Hour)}
	assert.NoError(t, validateChangeset(&entity.Changeset{DueDate: future}, now))

	// an update that leaves the due date unset is exempt from the rule
	assert.NoError(t, validateChangeset(&entity.Changeset{Status: str("completed")}, now))

	assert.ErrorIs(t, validateChangeset(&entity.Changeset{Status: str("done")}, now), ErrInvalidEnumValue)
	assert.ErrorIs(t, validateChangeset(&entity.Changeset{Priority: str("urgent")}, now), ErrInvalidEnumValue)
	assert.ErrorIs(t, validateChangeset(&entity.Changeset{AssignmentType: str("thesis")}, now), ErrInvalidEnumValue)

	assert.ErrorIs(t, validateChangeset(&entity.Changeset{Grade: f64(101)}, now), ErrGradeOutOfRange)
	assert.NoError(t, validateChangeset(&entity.Changeset{Grade: f64(55.5)}, now))

	// explicitly clearing the description to "" is a real change
	assert.NoError(t, validateChangeset(&entity.Changeset{Description: str("")}, now))
}

func TestParseDueDateNaiveIsUTC(t *testing.T) {
	got, err := entity.ParseDueDate("2030-05-01T09:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 5, 1, 9, 30, 0, 0, time.UTC), got)

	got, err = entity.ParseDueDate("2030-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC), got)

	zoned, err := entity.ParseDueDate("2030-05-01T09:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, 7, zoned.UTC().Hour())

	_, err = entity.ParseDueDate("next tuesday")
	assert.Error(t, err)
}
