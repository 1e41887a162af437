package annotate

import (
	"testing"

	"go-channel-archiver/internal/models"
)

func TestAnnotateDates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"Context ISO date", "Uploaded: 2023-04-01 some video", "2023-04-01"},
		{"Context ISO with time", "Published 2023-04-01 12:30:45", "2023-04-01 12:30:45"},
		{"Context US date", "Date: 4/1/2023", "4/1/2023"},
		{"Bare ISO date", "something 2021-11-05 else", "2021-11-05"},
		{"Bare US date", "watched on 12/25/2020 at home", "12/25/2020"},
		{"Written date", "Jan 5, 2019 premiere", "Jan 5, 2019"},
		{"Written date dd first", "5 January 2019 premiere", "5 January 2019"},
		{"Partial month year only", "sometime in March 2018", "March 2018"},
		{"Partial year month only", "archived 2018-03", "2018-03"},
		{"Full date beats partial", "March 2018 but really 2018-03-14", "2018-03-14"},
		{"Word before bare year is not a date", "archived 2018", ""},
		{"No date at all", "just a title with numbers 42", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Annotate(tt.text).UploadDate
			if got != tt.want {
				t.Errorf("Annotate(%q).UploadDate = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnnotateCounts(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantViews    string
		wantLikes    string
		wantDislikes string
	}{
		{
			name:         "Labelled counts",
			text:         "Views: 123,456 Likes: 789 Dislikes: 12",
			wantViews:    "123,456",
			wantLikes:    "789",
			wantDislikes: "12",
		},
		{
			name:         "Suffix style",
			text:         "1,000,000 views and 2,345 likes",
			wantViews:    "1,000,000",
			wantLikes:    "2,345",
			wantDislikes: models.DislikeNotApplicable,
		},
		{
			name:         "Adjacent suffix counts stay separate",
			text:         "12,345 views 678 likes",
			wantViews:    "12,345",
			wantLikes:    "678",
			wantDislikes: models.DislikeNotApplicable,
		},
		{
			name:         "Small integers rejected",
			text:         "5 views 1 like",
			wantViews:    "",
			wantLikes:    "",
			wantDislikes: models.DislikeNotApplicable,
		},
		{
			name:         "Comma-grouped small number accepted",
			text:         "1,234 views",
			wantViews:    "1,234",
			wantLikes:    "",
			wantDislikes: models.DislikeNotApplicable,
		},
		{
			name:         "Dislikes label does not leak into likes",
			text:         "Dislikes: 55",
			wantViews:    "",
			wantLikes:    "",
			wantDislikes: "55",
		},
		{
			name:         "Nothing found keeps sentinel",
			text:         "plain title",
			wantViews:    "",
			wantLikes:    "",
			wantDislikes: models.DislikeNotApplicable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Annotate(tt.text)
			if got.ViewCount != tt.wantViews {
				t.Errorf("ViewCount = %q, want %q", got.ViewCount, tt.wantViews)
			}
			if got.LikeCount != tt.wantLikes {
				t.Errorf("LikeCount = %q, want %q", got.LikeCount, tt.wantLikes)
			}
			if got.DislikeCount != tt.wantDislikes {
				t.Errorf("DislikeCount = %q, want %q", got.DislikeCount, tt.wantDislikes)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	dst := Fields{UploadDate: "2020-01-01", DislikeCount: models.DislikeNotApplicable}
	src := Fields{UploadDate: "1999-09-09", ViewCount: "1,234", LikeCount: "56", DislikeCount: "7"}

	got := Merge(dst, src)
	if got.UploadDate != "2020-01-01" {
		t.Errorf("Merge overwrote existing UploadDate: %q", got.UploadDate)
	}
	if got.ViewCount != "1,234" || got.LikeCount != "56" || got.DislikeCount != "7" {
		t.Errorf("Merge did not fill missing fields: %+v", got)
	}
}

func TestClassifyDate(t *testing.T) {
	tests := []struct {
		name             string
		input            string
		wantFormat       string
		wantCompleteness string
	}{
		{"Empty", "", "none", "none"},
		{"ISO", "2023-04-01", "ISO", "full"},
		{"US", "4/1/2023", "US", "full"},
		{"Written", "Jan 5, 2019", "written", "full"},
		{"Written dd", "5 Jan 2019", "written_dd", "full"},
		{"Month year", "Jan 2019", "month_year", "partial"},
		{"Year month", "2019-01", "year_month", "partial"},
		{"Year only", "2019", "year_only", "minimal"},
		{"Garbage", "someday", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDate(tt.input)
			if got.Format != tt.wantFormat || got.Completeness != tt.wantCompleteness {
				t.Errorf("ClassifyDate(%q) = {%s %s}, want {%s %s}",
					tt.input, got.Format, got.Completeness, tt.wantFormat, tt.wantCompleteness)
			}
		})
	}
}
