package resume

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeforge/internal/database"
)

func TestExportBookkeeping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.CreateResume(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.RenameResume(ctx, id, "Staff Engineer"))
	_, err = f.svc.AddSkill(ctx, id, "Go")
	require.NoError(t, err)

	export, err := f.svc.RequestExport(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, database.ExportPending, export.Status)
	assert.Equal(t, "Staff Engineer", export.Title)
	assert.Equal(t, "alice", export.UserID)

	gotExport, resume, err := f.svc.ExportSource(ctx, export.ID)
	require.NoError(t, err)
	assert.Equal(t, export.ID, gotExport.ID)
	assert.Equal(t, id, resume.ID)
	require.Len(t, resume.Skills, 1)

	doc := []byte(`{"name":"Ada"}`)
	require.NoError(t, f.svc.CompleteExport(ctx, export.ID, "exports/alice/x/y.pdf", 2048, doc))

	done, err := f.svc.GetExport(ctx, id, export.ID)
	require.NoError(t, err)
	assert.Equal(t, database.ExportCompleted, done.Status)
	assert.Equal(t, "exports/alice/x/y.pdf", done.ObjectKey)
	assert.EqualValues(t, 2048, done.SizeBytes)
	assert.JSONEq(t, string(doc), string(done.Document))
	assert.Empty(t, done.Error)
}

func TestExportOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.as("bob")

	id, err := f.svc.CreateResume(ctx)
	require.NoError(t, err)
	other, err := f.svc.CreateResume(ctx)
	require.NoError(t, err)

	_, err = bob.RequestExport(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	export, err := f.svc.RequestExport(ctx, id)
	require.NoError(t, err)

	_, err = bob.GetExport(ctx, id, export.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.GetExport(ctx, other, export.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = bob.ExportSource(ctx, export.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, bob.FailExport(ctx, export.ID, "nope"), ErrNotFound)
	assert.ErrorIs(t, f.svc.FailExport(ctx, "missing", "nope"), ErrNotFound)
}

func TestFailExportTruncatesReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.CreateResume(ctx)
	require.NoError(t, err)
	export, err := f.svc.RequestExport(ctx, id)
	require.NoError(t, err)

	require.NoError(t, f.svc.FailExport(ctx, export.ID, strings.Repeat("x", 4000)))

	failed, err := f.svc.GetExport(ctx, id, export.ID)
	require.NoError(t, err)
	assert.Equal(t, database.ExportFailed, failed.Status)
	assert.Len(t, failed.Error, 1024)
}

func TestFailExportKeepsMultiByteReasonValid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.CreateResume(ctx)
	require.NoError(t, err)
	export, err := f.svc.RequestExport(ctx, id)
	require.NoError(t, err)

	// 第 1024 个字节落在某个“简”的中间。
	reason := "xx" + strings.Repeat("简", 1100)
	require.NoError(t, f.svc.FailExport(ctx, export.ID, reason))

	failed, err := f.svc.GetExport(ctx, id, export.ID)
	require.NoError(t, err)
	assert.Equal(t, database.ExportFailed, failed.Status)
	assert.True(t, utf8.ValidString(failed.Error))
	assert.Equal(t, 1024, utf8.RuneCountInString(failed.Error))
	assert.Equal(t, "xx"+strings.Repeat("简", 1022), failed.Error)
}

func TestTruncateRunes(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"", 3, ""},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"简历导出", 2, "简历"},
		{"a简b", 2, "a简"},
	}
	for _, tc := range cases {
		got := truncateRunes(tc.in, tc.n)
		assert.Equal(t, tc.want, got, tc.in)
		assert.True(t, utf8.ValidString(got))
	}
}

func TestExportSourceAfterResumeDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.CreateResume(ctx)
	require.NoError(t, err)
	export, err := f.svc.RequestExport(ctx, id)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteResume(ctx, id))

	_, _, err = f.svc.ExportSource(ctx, export.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
