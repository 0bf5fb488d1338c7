package models

import (
	"html"
	"strings"
	"time"

	"github.com/area-comments-api/internal/linkgen"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AreaSeparator joins the words or path segments of an area slug
const AreaSeparator = "-"

// LineBreak is the markup substituted for newlines in display content
const LineBreak = "<br />"

// Comment represents a user comment attached to an area of the application.
// Area, AuthorID and Content carry the rules an external validator applies
// before the comment is saved; the model itself never rejects data.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	Area      string    `json:"area" db:"area" validate:"required,notblank"`
	AuthorID  int64     `json:"author_id" db:"author_id" validate:"required"`
	Content   string    `json:"content" db:"content" validate:"required,notblank"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CommentRules lists the declared validation rules by column name
var CommentRules = map[string]string{
	"area":      "required",
	"author_id": "required",
	"content":   "required",
}

// CommentWithAuthor pairs a comment with its eagerly loaded author.
// Author is nil when no user row matches the comment's author_id.
type CommentWithAuthor struct {
	Comment
	Author *User `json:"author"`
}

// AreaName returns the area as a human readable title: separators become
// spaces and the first letter of every word is upper-cased.
func (c *Comment) AreaName() string {
	name := strings.ReplaceAll(c.Area, AreaSeparator, " ")
	return cases.Title(language.Und, cases.NoLower).String(name)
}

// AreaPath returns the area as a slash separated path
func (c *Comment) AreaPath() string {
	return strings.ReplaceAll(c.Area, AreaSeparator, "/")
}

// AreaLink returns a navigable link to the commented area
func (c *Comment) AreaLink(links linkgen.Generator) string {
	return links.To(c.AreaPath())
}

// Date returns the raw creation timestamp
func (c *Comment) Date() time.Time {
	return c.CreatedAt
}

// TimeAgo returns the creation time relative to now, e.g. "3 hours ago"
func (c *Comment) TimeAgo() string {
	return c.TimeAgoFrom(time.Now())
}

// TimeAgoFrom returns the creation time relative to now
func (c *Comment) TimeAgoFrom(now time.Time) string {
	return humanize.RelTime(c.CreatedAt, now, "ago", "from now")
}

var newlineReplacer = strings.NewReplacer(
	"\r\n", LineBreak,
	"\n\r", LineBreak,
	"\n", LineBreak,
	"\r", LineBreak,
)

// DisplayContent converts newlines in the raw content to line breaks.
// No HTML escaping is performed; use SafeContent for untrusted output.
func (c *Comment) DisplayContent() string {
	return newlineReplacer.Replace(c.Content)
}

// SafeContent escapes HTML in the raw content before converting newlines
func (c *Comment) SafeContent() string {
	return newlineReplacer.Replace(html.EscapeString(c.Content))
}

// CommentView is a comment together with its derived display attributes
type CommentView struct {
	ID          int64     `json:"id"`
	Area        string    `json:"area"`
	AuthorID    int64     `json:"author_id"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	AreaName    string    `json:"area_name"`
	AreaLink    string    `json:"area_link"`
	Date        time.Time `json:"date"`
	TimeAgo     string    `json:"time_ago"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Author      *User     `json:"author,omitempty"`
}

// CommentPage is one page of a comment listing
type CommentPage struct {
	Comments []*CommentWithAuthor
	Total    int
	Limit    int
	Offset   int
}
