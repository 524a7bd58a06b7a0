package resume

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"resumeforge/internal/database"
	"resumeforge/internal/metrics"
)

var copySuffix = regexp.MustCompile(` \(Copy( \d+)?\)$`)

// BaseTitle 去掉标题末尾的 " (Copy)" 或 " (Copy N)"（只去一次）。
func BaseTitle(title string) string {
	if loc := copySuffix.FindStringIndex(title); loc != nil {
		return title[:loc[0]]
	}
	return title
}

// NextCopyTitle 根据同名副本中最大的 N 推导新副本标题。
// 无副本时为 "X (Copy)"，否则为 "X (Copy max+1)"；"X (Copy)" 视为 N=1。
func NextCopyTitle(source string, siblings []string) string {
	base := BaseTitle(source)
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(base) + ` \(Copy(?: (\d+))?\)$`)

	maxN := 0
	for _, title := range siblings {
		m := pattern.FindStringSubmatch(title)
		if m == nil {
			continue
		}
		n := 1
		if m[1] != "" {
			parsed, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			n = parsed
		}
		if n > maxN {
			maxN = n
		}
	}

	if maxN == 0 {
		return base + " (Copy)"
	}
	return fmt.Sprintf("%s (Copy %d)", base, maxN+1)
}

// DuplicateResume 深拷贝一份简历（含全部分区），返回新简历 ID。
func (s *Service) DuplicateResume(ctx context.Context, resumeID string) (string, error) {
	userID, err := s.actingUser(ctx)
	if err != nil {
		return "", err
	}

	var copyID, copyTitle string
	err = s.store.Transaction(ctx, func(tx database.Gateway) error {
		source, err := tx.LoadAggregate(ctx, resumeID, userID)
		if err != nil {
			return notFoundOr(err, "load source resume")
		}

		siblings, err := tx.ListTitlesWithPrefix(ctx, userID, BaseTitle(source.Title))
		if err != nil {
			return err
		}

		dup := &database.Resume{UserID: userID, Title: NextCopyTitle(source.Title, siblings)}
		if err := tx.CreateResume(ctx, dup); err != nil {
			return err
		}
		if err := cloneSections(ctx, tx, source, dup.ID); err != nil {
			return err
		}

		copyID, copyTitle = dup.ID, dup.Title
		return nil
	})
	if err != nil {
		return "", notFoundOr(err, "duplicate resume")
	}

	metrics.ResumeDuplications.Inc()
	s.logger.Info("resume duplicated",
		slog.String("user_id", userID),
		slog.String("source_id", resumeID),
		slog.String("resume_id", copyID),
		slog.String("title", copyTitle),
	)
	s.invalidate(ctx, userID, ViewResumeList)
	return copyID, nil
}

// cloneSections 复制源简历的全部子记录到 resumeID 下：新主键，字段与 sort_order 不变。
func cloneSections(ctx context.Context, tx database.Gateway, source *database.Resume, resumeID string) error {
	if source.ContactInfo != nil {
		info := *source.ContactInfo
		info.Base = database.Base{}
		info.ResumeID = resumeID
		if err := tx.CreateItem(ctx, &info); err != nil {
			return err
		}
	}

	if source.Summary != nil {
		summary := *source.Summary
		summary.Base = database.Base{}
		summary.ResumeID = resumeID
		if err := tx.CreateItem(ctx, &summary); err != nil {
			return err
		}
	}

	if n := len(source.Experiences); n > 0 {
		rows := make([]database.Experience, n)
		for i, row := range source.Experiences {
			row.Base = database.Base{}
			row.ResumeID = resumeID
			rows[i] = row
		}
		if err := tx.CreateItem(ctx, &rows); err != nil {
			return err
		}
	}

	if n := len(source.Education); n > 0 {
		rows := make([]database.Education, n)
		for i, row := range source.Education {
			row.Base = database.Base{}
			row.ResumeID = resumeID
			rows[i] = row
		}
		if err := tx.CreateItem(ctx, &rows); err != nil {
			return err
		}
	}

	if n := len(source.Skills); n > 0 {
		rows := make([]database.Skill, n)
		for i, row := range source.Skills {
			row.Base = database.Base{}
			row.ResumeID = resumeID
			rows[i] = row
		}
		if err := tx.CreateItem(ctx, &rows); err != nil {
			return err
		}
	}

	if n := len(source.Projects); n > 0 {
		rows := make([]database.Project, n)
		for i, row := range source.Projects {
			row.Base = database.Base{}
			row.ResumeID = resumeID
			rows[i] = row
		}
		if err := tx.CreateItem(ctx, &rows); err != nil {
			return err
		}
	}

	return nil
}
