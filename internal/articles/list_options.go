package articles

import "strings"

// List option tokens mirror the constructors in the public articles package.
// ListOption is a string alias, so the values themselves are the contract.
const (
	listPublishedOnly  ListOption = "articles:list:published_only"
	listIncludeDeleted ListOption = "articles:list:include_deleted"
	listStatusPrefix   ListOption = "articles:list:status:"
	listCategoryPrefix ListOption = "articles:list:category:"
	listTagPrefix      ListOption = "articles:list:tag:"
)

type listFilter struct {
	publishedOnly  bool
	includeDeleted bool
	status         string
	category       string
	tag            string
}

func parseListOptions(args ...ListOption) listFilter {
	var filter listFilter
	for _, raw := range args {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		switch {
		case token == listPublishedOnly:
			filter.publishedOnly = true
		case token == listIncludeDeleted:
			filter.includeDeleted = true
		case strings.HasPrefix(token, listStatusPrefix):
			filter.status = strings.TrimPrefix(token, listStatusPrefix)
		case strings.HasPrefix(token, listCategoryPrefix):
			filter.category = strings.TrimPrefix(token, listCategoryPrefix)
		case strings.HasPrefix(token, listTagPrefix):
			filter.tag = strings.TrimPrefix(token, listTagPrefix)
		}
	}
	return filter
}

func (f listFilter) matches(record *Article) bool {
	if record == nil {
		return false
	}
	if !f.includeDeleted && record.DeletedAt != nil {
		return false
	}
	if f.publishedOnly && !record.IsPublished() {
		return false
	}
	if f.status != "" && record.Status != f.status {
		return false
	}
	if f.category != "" && !containsFold(record.Categories, f.category) {
		return false
	}
	if f.tag != "" && !containsFold(record.Tags, f.tag) {
		return false
	}
	return true
}

func containsFold(values []string, needle string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), needle) {
			return true
		}
	}
	return false
}
