// Package notion holds the raw shape of a Notion database query result and a
// read-only client for fetching it. Every nested property is optional: a page
// missing any of them still decodes, and the board package supplies defaults.
package notion

// QueryResult is one batch of pages, either a single API response or the
// concatenation of every page of a paginated query.
type QueryResult struct {
	Object     string  `json:"object,omitempty"`
	Results    []Page  `json:"results"`
	NextCursor *string `json:"next_cursor,omitempty"`
	HasMore    bool    `json:"has_more,omitempty"`
}

// Page is a single database row.
type Page struct {
	ID             string     `json:"id"`
	LastEditedTime string     `json:"last_edited_time,omitempty"`
	Properties     Properties `json:"properties"`
}

// Properties are the columns of the Ops HQ tasks database that the board reads.
type Properties struct {
	Name        *TitleProperty          `json:"Name,omitempty"`
	Status      *SelectProperty         `json:"Status,omitempty"`
	Priority    *SelectProperty         `json:"Priority,omitempty"`
	Due         *DateProperty           `json:"Due,omitempty"`
	Project     *RelationProperty       `json:"Project,omitempty"`
	LastTouched *LastEditedTimeProperty `json:"Last Touched,omitempty"`
	Source      *SelectProperty         `json:"Source,omitempty"`
}

// TitleProperty is a title column: a list of rich text fragments.
type TitleProperty struct {
	Title []RichText `json:"title"`
}

// RichText is one text fragment.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// SelectProperty is a single-select column. Select is nil when unset.
type SelectProperty struct {
	Select *SelectOption `json:"select"`
}

// SelectOption is the chosen option of a select column.
type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// DateProperty is a date column. Date is nil when unset.
type DateProperty struct {
	Date *DateValue `json:"date"`
}

// DateValue holds the start of a date or date range, either YYYY-MM-DD or a
// full ISO 8601 timestamp.
type DateValue struct {
	Start    string  `json:"start"`
	End      *string `json:"end,omitempty"`
	TimeZone *string `json:"time_zone,omitempty"`
}

// RelationProperty is a relation column pointing at pages of another database.
type RelationProperty struct {
	Relation []Relation `json:"relation"`
}

// Relation references a related page by ID.
type Relation struct {
	ID string `json:"id"`
}

// LastEditedTimeProperty is a "last edited time" column.
type LastEditedTimeProperty struct {
	LastEditedTime string `json:"last_edited_time"`
}
