package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

var validCategories = map[string]bool{"my": true, "open": true, "all": true}

var validSearchFields = map[string]bool{
	"title_company": true, "company": true, "title": true,
	"location": true, "description": true,
}

var validSorts = map[string]bool{
	"created_desc": true, "created_asc": true,
	"updated_desc": true, "updated_asc": true,
	"location_az": true, "status_progression": true,
}

var remoteTypeByMode = map[string]string{
	"remote": "Remote",
	"onsite": "Onsite",
	"hybrid": "Hybrid",
}

type ListQuery struct {
	Category     string
	UserID       string // canonical GUID, empty for anonymous "open"/"all"
	Q            string
	SearchField  string
	Modes        []string
	Cities       []string
	Countries    []string
	IgnoreStatus []string
	DateKind     string // "created" | "updated"
	DateFrom     *time.Time
	DateTo       *time.Time // inclusive day; converted to an exclusive bound
	Sort         string
	Limit        int
	Offset       int
}

type ListItem struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title,omitempty"`
	ExternalID            string     `json:"externalId"`
	FoundOn               string     `json:"foundOn"`
	HiringCompanyName     string     `json:"hiringCompanyName"`
	PostingCompanyName    string     `json:"postingCompanyName,omitempty"`
	RemoteType            string     `json:"remoteType"`
	CreatedAt             string     `json:"createdAt"`
	UpdatedAt             string     `json:"updatedAt,omitempty"`
	UserStatus            string     `json:"userStatus,omitempty"`
	UserStatusLastUpdated string     `json:"userStatusLastUpdated,omitempty"`
	LastUpdateAt          string     `json:"lastUpdateAt"`
	Locations             []Location `json:"locations"`
}

type ListResult struct {
	Category string     `json:"category"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
	Total    int        `json:"total"`
	Sort     string     `json:"sort"`
	Items    []ListItem `json:"items"`
}

// ListJobs assembles one parameterized WHERE clause from the query options
// and runs it twice: once for COUNT(*), once for the page itself.
func (d *DB) ListJobs(ctx context.Context, q ListQuery) (ListResult, error) {
	q = withListDefaults(q)
	if err := validateListQuery(q); err != nil {
		return ListResult{}, err
	}

	joined := q.UserID != ""
	joinSQL := ""
	var joinArgs []any
	if joined {
		joinSQL = "LEFT JOIN user_job_status us ON us.job_offering_id = j.id AND us.user_id = ?"
		joinArgs = append(joinArgs, q.UserID)
	}

	p := &predicate{}
	p.and("j.is_deleted = 0")
	buildCategory(p, q)
	buildSearch(p, q)
	buildModes(p, q.Modes)
	buildLocations(p, q.Cities, q.Countries)
	buildIgnoreStatus(p, q.IgnoreStatus)
	buildDates(p, q, joined)

	whereSQL := p.whereSQL()
	baseArgs := append(append([]any{}, joinArgs...), p.args...)

	var total int
	countSQL := "SELECT COUNT(*) FROM job_offerings j " + joinSQL + " WHERE " + whereSQL + ";"
	if err := d.Pool.QueryRowContext(ctx, countSQL, baseArgs...).Scan(&total); err != nil {
		return ListResult{}, err
	}

	statusCols := "NULL, NULL"
	if joined {
		statusCols = "us.status, us.last_updated"
	}
	selectSQL := `
SELECT j.id, j.title, j.external_id, j.found_on,
       j.hiring_company_name, j.posting_company_name, j.remote_type,
       j.created_at, j.updated_at,
       ` + statusCols + `,
       ` + updatedExpr(joined) + `
FROM job_offerings j ` + joinSQL + `
WHERE ` + whereSQL + `
` + orderSQL(q.Sort, joined) + `
LIMIT ? OFFSET ?;`
	selectArgs := append(append([]any{}, baseArgs...), q.Limit, q.Offset)

	rows, err := d.Pool.QueryContext(ctx, selectSQL, selectArgs...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	items := []ListItem{}
	var ids []string
	for rows.Next() {
		var it ListItem
		var title, postingCompany, updatedAt, status, statusUpdated sql.NullString
		if err := rows.Scan(
			&it.ID, &title, &it.ExternalID, &it.FoundOn,
			&it.HiringCompanyName, &postingCompany, &it.RemoteType,
			&it.CreatedAt, &updatedAt,
			&status, &statusUpdated,
			&it.LastUpdateAt,
		); err != nil {
			return ListResult{}, err
		}
		it.Title = title.String
		it.PostingCompanyName = postingCompany.String
		it.UpdatedAt = updatedAt.String
		it.UserStatus = status.String
		it.UserStatusLastUpdated = statusUpdated.String
		it.Locations = []Location{}
		items = append(items, it)
		ids = append(ids, it.ID)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, err
	}

	locs, err := d.loadLocations(ctx, ids)
	if err != nil {
		return ListResult{}, err
	}
	for i := range items {
		if l := locs[items[i].ID]; l != nil {
			items[i].Locations = l
		}
	}

	return ListResult{
		Category: q.Category,
		Limit:    q.Limit,
		Offset:   q.Offset,
		Total:    total,
		Sort:     q.Sort,
		Items:    items,
	}, nil
}

func withListDefaults(q ListQuery) ListQuery {
	if q.Category == "" {
		q.Category = "my"
	}
	if q.SearchField == "" {
		q.SearchField = "title_company"
	}
	if q.DateKind == "" {
		q.DateKind = "updated"
	}
	if q.Sort == "" {
		q.Sort = "created_desc"
	}
	if q.Limit <= 0 {
		q.Limit = 25
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

func validateListQuery(q ListQuery) error {
	if !validCategories[q.Category] {
		return invalid("invalid 'category'")
	}
	if !validSearchFields[q.SearchField] {
		return invalid("invalid 'search_field'")
	}
	if q.DateKind != "created" && q.DateKind != "updated" {
		return invalid("invalid 'date_kind'")
	}
	if !validSorts[q.Sort] {
		return invalid("invalid 'sort'")
	}
	if q.Category == "my" && q.UserID == "" {
		return invalid("missing user id for category='my'")
	}
	if len(q.IgnoreStatus) > 0 && q.UserID == "" {
		return invalid("missing user id for 'ignore_status'")
	}
	return nil
}

func lowerFinalStatuses() []any {
	out := make([]any, len(FinalStatuses))
	for i, s := range FinalStatuses {
		out[i] = strings.ToLower(s)
	}
	return out
}

func buildCategory(p *predicate, q ListQuery) {
	finals := lowerFinalStatuses()
	switch q.Category {
	case "my":
		// created by me OR carrying my still-live status
		args := append([]any{q.UserID}, finals...)
		p.and("(j.created_by_user_id = ? OR (us.status IS NOT NULL AND lower(us.status) NOT IN ("+
			placeholders(len(finals))+")))", args...)
	case "open":
		// nobody has closed this one out
		p.and(`NOT EXISTS (
  SELECT 1 FROM user_job_status s
  WHERE s.job_offering_id = j.id AND lower(s.status) IN (`+placeholders(len(finals))+`))`, finals...)
	}
	// "all" adds nothing beyond is_deleted = 0
}

func buildSearch(p *predicate, q ListQuery) {
	if q.Q == "" {
		return
	}
	like := "%" + q.Q + "%"
	switch q.SearchField {
	case "title_company":
		p.and("(j.title LIKE ? OR j.hiring_company_name LIKE ? OR j.posting_company_name LIKE ?)", like, like, like)
	case "company":
		p.and("(j.hiring_company_name LIKE ? OR j.posting_company_name LIKE ?)", like, like)
	case "title":
		p.and("j.title LIKE ?", like)
	case "location":
		p.and(`EXISTS (
  SELECT 1 FROM job_offering_locations lq
  WHERE lq.job_offering_id = j.id AND (lq.city_name LIKE ? OR lq.country_name LIKE ?))`, like, like)
	case "description":
		p.and("j.description LIKE ?", like)
	}
}

func buildModes(p *predicate, modes []string) {
	if len(modes) == 0 {
		return
	}
	args := make([]any, 0, len(modes))
	for _, m := range modes {
		norm, ok := remoteTypeByMode[strings.ToLower(m)]
		if !ok {
			norm = titleCase(m)
		}
		args = append(args, norm)
	}
	p.and("j.remote_type IN ("+placeholders(len(args))+")", args...)
}

// buildLocations filters via EXISTS so a job with several locations still
// appears once. Two-letter country values match the ISO code column,
// anything longer the country name.
func buildLocations(p *predicate, cities, countries []string) {
	if len(cities) > 0 {
		args := make([]any, len(cities))
		for i, c := range cities {
			args[i] = c
		}
		p.and(`EXISTS (
  SELECT 1 FROM job_offering_locations lc
  WHERE lc.job_offering_id = j.id AND lc.city_name IN (`+placeholders(len(args))+`))`, args...)
	}
	if len(countries) > 0 {
		var codes, names []any
		for _, c := range countries {
			c = strings.TrimSpace(c)
			if len(c) == 2 {
				codes = append(codes, c)
			} else if c != "" {
				names = append(names, c)
			}
		}
		var parts []string
		if len(codes) > 0 {
			parts = append(parts, "lc.country_code IN ("+placeholders(len(codes))+")")
		}
		if len(names) > 0 {
			parts = append(parts, "lc.country_name IN ("+placeholders(len(names))+")")
		}
		if len(parts) > 0 {
			p.and(`EXISTS (
  SELECT 1 FROM job_offering_locations lc
  WHERE lc.job_offering_id = j.id AND (`+strings.Join(parts, " OR ")+`))`, append(codes, names...)...)
		}
	}
}

// buildIgnoreStatus drops jobs whose status (for THIS user) is on the ignore
// list; jobs without any status for the user pass.
func buildIgnoreStatus(p *predicate, ignore []string) {
	if len(ignore) == 0 {
		return
	}
	args := make([]any, len(ignore))
	for i, s := range ignore {
		args[i] = strings.ToLower(s)
	}
	p.and("(us.status IS NULL OR lower(us.status) NOT IN ("+placeholders(len(args))+"))", args...)
}

func buildDates(p *predicate, q ListQuery, joined bool) {
	expr := "j.created_at"
	if q.DateKind == "updated" {
		expr = updatedExpr(joined)
	}
	if q.DateFrom != nil {
		p.and(expr+" >= ?", formatTime(*q.DateFrom))
	}
	if q.DateTo != nil {
		// end-of-day inclusive
		p.and(expr+" < ?", formatTime(q.DateTo.AddDate(0, 0, 1)))
	}
}

func titleCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func updatedExpr(joined bool) string {
	if joined {
		return "COALESCE(us.last_updated, j.updated_at, j.created_at)"
	}
	return "COALESCE(j.updated_at, j.created_at)"
}

func orderSQL(sort string, joined bool) string {
	switch sort {
	case "created_asc":
		return "ORDER BY j.created_at ASC"
	case "updated_desc":
		return "ORDER BY " + updatedExpr(joined) + " DESC"
	case "updated_asc":
		return "ORDER BY " + updatedExpr(joined) + " ASC"
	case "location_az":
		return `ORDER BY (
  SELECT COALESCE(l.country_name,'') || '|' || COALESCE(l.city_name,'')
  FROM job_offering_locations l
  WHERE l.job_offering_id = j.id
  ORDER BY l.country_name, l.city_name
  LIMIT 1
) ASC, j.created_at DESC`
	case "status_progression":
		// presentation heuristic: active pipelines float up, closed ones sink
		if !joined {
			return "ORDER BY " + updatedExpr(joined) + " DESC"
		}
		return `ORDER BY
  CASE lower(COALESCE(us.status, ''))
    WHEN 'offer' THEN 6
    WHEN 'interview' THEN 5
    WHEN 'screening planned' THEN 4
    WHEN 'applied' THEN 3
    WHEN '' THEN 2
    ELSE 1
  END DESC,
  ` + updatedExpr(joined) + ` DESC`
	default: // created_desc
		return "ORDER BY j.created_at DESC"
	}
}
