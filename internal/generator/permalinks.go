package generator

import (
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	routeGroupSite = "site"
	routeArticle   = "article"
	routeCategory  = "category"
	routeIndex     = "index"
)

// permalinkResolver derives site routes from a go-urlkit RouteManager. When
// no manager is wired the conventional blog layout is used instead.
type permalinkResolver struct {
	manager *urlkit.RouteManager

	mu    sync.RWMutex
	group *urlkit.Group
}

func newPermalinkResolver(manager *urlkit.RouteManager) *permalinkResolver {
	return &permalinkResolver{manager: manager}
}

// ArticleRoute returns the site-relative route for an article slug.
func (r *permalinkResolver) ArticleRoute(slug string) string {
	slug = strings.TrimSpace(slug)
	if route, err := r.build(routeArticle, "slug", slug); err == nil && route != "" {
		return route
	}
	return "/posts/" + slug
}

// CategoryRoute returns the site-relative route for a category slug.
func (r *permalinkResolver) CategoryRoute(slug string) string {
	slug = strings.TrimSpace(slug)
	if route, err := r.build(routeCategory, "slug", slug); err == nil && route != "" {
		return route
	}
	return "/categories/" + slug
}

// IndexRoute returns the site-relative route for the article listing.
func (r *permalinkResolver) IndexRoute() string {
	if route, err := r.build(routeIndex, "", ""); err == nil && route != "" {
		return route
	}
	return "/"
}

func (r *permalinkResolver) build(route, paramKey, paramValue string) (string, error) {
	group, err := r.siteGroup()
	if err != nil || group == nil {
		return "", err
	}
	builder, err := safeBuilder(group, route)
	if err != nil || builder == nil {
		return "", err
	}
	if paramKey != "" {
		builder.WithParam(paramKey, paramValue)
	}
	url, err := builder.Build()
	if err != nil {
		return "", err
	}
	return normalizeRoute(url), nil
}

func (r *permalinkResolver) siteGroup() (*urlkit.Group, error) {
	if r == nil || r.manager == nil {
		return nil, nil
	}
	r.mu.RLock()
	group := r.group
	r.mu.RUnlock()
	if group != nil {
		return group, nil
	}

	group, err := lookupGroup(r.manager, routeGroupSite)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.group = group
	r.mu.Unlock()
	return group, nil
}

// normalizeRoute strips any scheme and host urlkit may have prefixed so the
// generator always works with site-relative routes.
func normalizeRoute(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(url, scheme) {
			rest := strings.TrimPrefix(url, scheme)
			if idx := strings.Index(rest, "/"); idx >= 0 {
				url = rest[idx:]
			} else {
				url = "/"
			}
			break
		}
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return url
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("generator: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("generator: urlkit builder panic: %v", rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("generator: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("generator: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}
