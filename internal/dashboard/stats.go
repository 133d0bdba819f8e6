// Package dashboard computes the aggregate statistics the original dashboard
// rendered: headcount, department and role distributions with percentages.
// Aggregation happens client-side over fetched employee records; the backend
// only serves pages.
package dashboard

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"staffdesk/internal/api"
	"staffdesk/pkg/domain"
)

// Lister is the slice of the API client the dashboard needs.
type Lister interface {
	ListEmployees(ctx context.Context, params api.ListEmployeesParams) (*api.EmployeePage, error)
}

// Stats is the computed dashboard snapshot.
type Stats struct {
	TotalEmployees int
	Departments    []Bucket
	Roles          []Bucket
}

// Bucket is one slice of a distribution.
type Bucket struct {
	Label   string
	Count   int
	Percent float64
}

const defaultPageSize = 100

// maxConcurrentPages bounds parallel page fetches so a large directory does
// not stampede the backend.
const maxConcurrentPages = 4

// FetchAll pulls every employee page. The first page establishes the total;
// the rest are fetched concurrently and reassembled in page order.
func FetchAll(ctx context.Context, lister Lister, pageSize int) ([]api.Employee, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	first, err := lister.ListEmployees(ctx, api.ListEmployeesParams{Page: 1, PageSize: pageSize})
	if err != nil {
		return nil, err
	}
	if first.TotalPages <= 1 {
		return first.Items, nil
	}

	pages := make([][]api.Employee, first.TotalPages)
	pages[0] = first.Items

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPages)
	for page := 2; page <= first.TotalPages; page++ {
		g.Go(func() error {
			result, err := lister.ListEmployees(ctx, api.ListEmployeesParams{Page: page, PageSize: pageSize})
			if err != nil {
				return err
			}
			pages[page-1] = result.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []api.Employee
	for _, items := range pages {
		all = append(all, items...)
	}
	return all, nil
}

// Compute aggregates employee records into the dashboard snapshot. Buckets
// are ordered by count descending, label ascending, so rendering is stable.
func Compute(employees []api.Employee) Stats {
	total := len(employees)
	stats := Stats{TotalEmployees: total}
	if total == 0 {
		return stats
	}

	departments := make(map[string]int)
	roles := make(map[string]int)
	for _, e := range employees {
		label := e.DepartmentName
		if label == "" {
			label = "Unassigned"
		}
		departments[label]++

		role, _ := domain.NormalizeRole(e.Role)
		roles[role.String()]++
	}

	stats.Departments = toBuckets(departments, total)
	stats.Roles = toBuckets(roles, total)
	return stats
}

func toBuckets(counts map[string]int, total int) []Bucket {
	buckets := make([]Bucket, 0, len(counts))
	for label, count := range counts {
		buckets = append(buckets, Bucket{
			Label:   label,
			Count:   count,
			Percent: float64(count) * 100 / float64(total),
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Label < buckets[j].Label
	})
	return buckets
}
