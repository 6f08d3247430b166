package youtube

import (
	"strconv"
	"strings"
)

// Platform is the type tag carried by collected data and networks.
const Platform = "youtube"

// ClassCollectedData is the generic class marker of a collected record set.
const ClassCollectedData = "collected-data"

const (
	// NoParent is the ParentID of a top-level comment.
	NoParent = "NONE"
	// AttributionNone marks a record with no resolved target yet.
	AttributionNone = "FALSE"
	// VideoSinkPrefix prefixes the synthetic actor that stands for the video itself.
	VideoSinkPrefix = "VIDEO:"
)

// VideoSink returns the synthetic actor id for a video.
func VideoSink(videoID string) string { return VideoSinkPrefix + videoID }

// IsVideoSink reports whether id names a video sink.
func IsVideoSink(id string) bool { return strings.HasPrefix(id, VideoSinkPrefix) }

// CommentRecord is one harvested comment or reply.
type CommentRecord struct {
	Text            string `json:"text"`
	Author          string `json:"author"`
	AuthorChannelID string `json:"author_channel_id,omitempty"`
	ReplyCount      int    `json:"reply_count"`
	LikeCount       int    `json:"like_count"`
	PublishTime     string `json:"publish_time"`
	UpdateTime      string `json:"update_time,omitempty"`
	CommentID       string `json:"comment_id"`
	ParentID        string `json:"parent_id"`
	Attribution     string `json:"attribution"`
	SourceID        string `json:"source_id"`
}

// IsReply reports whether the record answers another comment.
func (r CommentRecord) IsReply() bool {
	return r.ParentID != "" && r.ParentID != NoParent
}

// newRecord builds a record from a normalized API item.
// Items without an id or any author identity are rejected.
func newRecord(it RawItem, sourceID, parentID string) (CommentRecord, bool) {
	if !identifiable(it) {
		return CommentRecord{}, false
	}
	author := it.Author
	if author == "" {
		author = it.AuthorChannelID
	}
	rec := CommentRecord{
		Text:            it.Text,
		Author:          author,
		AuthorChannelID: it.AuthorChannelID,
		ReplyCount:      max(it.ReplyCount, 0),
		LikeCount:       max(it.LikeCount, 0),
		PublishTime:     it.PublishedAt,
		UpdateTime:      it.UpdatedAt,
		CommentID:       it.ID,
		ParentID:        parentID,
		Attribution:     AttributionNone,
		SourceID:        sourceID,
	}
	if rec.IsReply() {
		rec.ReplyCount = 0
	}
	return rec, true
}

// Dataframe is the tabular record set produced by a collection run.
type Dataframe struct {
	Class   []string        `json:"class"`
	Records []CommentRecord `json:"records"`

	RunID   string   `json:"run_id,omitempty"`  // collection run that produced the records
	Skipped []string `json:"skipped,omitempty"` // videos with comments disabled
}

// NewDataframe wraps records with the collected-data class markers.
func NewDataframe(records []CommentRecord) *Dataframe {
	if records == nil {
		records = []CommentRecord{}
	}
	return &Dataframe{
		Class:   []string{ClassCollectedData, Platform},
		Records: records,
	}
}

var columns = []string{
	"comment_id", "parent_id", "source_id", "author", "author_channel_id",
	"text", "reply_count", "like_count", "publish_time", "update_time", "attribution",
}

// Len returns the number of records.
func (d *Dataframe) Len() int { return len(d.Records) }

// Columns returns the column names of the tabular form.
func (d *Dataframe) Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// Rows renders every record as a row matching Columns.
func (d *Dataframe) Rows() [][]string {
	rows := make([][]string, 0, len(d.Records))
	for _, r := range d.Records {
		rows = append(rows, []string{
			r.CommentID, r.ParentID, r.SourceID, r.Author, r.AuthorChannelID,
			r.Text, strconv.Itoa(r.ReplyCount), strconv.Itoa(r.LikeCount),
			r.PublishTime, r.UpdateTime, r.Attribution,
		})
	}
	return rows
}

// VideoIDs returns the distinct source ids in first-seen order.
func (d *Dataframe) VideoIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range d.Records {
		if !seen[r.SourceID] {
			seen[r.SourceID] = true
			ids = append(ids, r.SourceID)
		}
	}
	return ids
}

// Authors returns the distinct non-empty authors in first-seen order.
func (d *Dataframe) Authors() []string {
	return AuthorsOf(d.Records)
}

// Counts returns how many records are top-level comments and how many are replies.
func (d *Dataframe) Counts() (comments, replies int) {
	for _, r := range d.Records {
		if r.IsReply() {
			replies++
		} else {
			comments++
		}
	}
	return comments, replies
}

// AuthorsOf returns the distinct non-empty authors of records in first-seen order.
func AuthorsOf(records []CommentRecord) []string {
	seen := make(map[string]bool)
	var authors []string
	for _, r := range records {
		if r.Author == "" || seen[r.Author] {
			continue
		}
		seen[r.Author] = true
		authors = append(authors, r.Author)
	}
	return authors
}

// identifiable reports whether an item has an id and some author identity.
func identifiable(it RawItem) bool {
	return it.ID != "" && (it.Author != "" || it.AuthorChannelID != "")
}

// identifiableItems returns the items that can become records and how many
// were dropped. items is not modified.
func identifiableItems(items []RawItem) ([]RawItem, int) {
	kept := make([]RawItem, 0, len(items))
	for _, it := range items {
		if identifiable(it) {
			kept = append(kept, it)
		}
	}
	return kept, len(items) - len(kept)
}
