package staticcmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-press/internal/generator"
	"github.com/google/uuid"
)

func alwaysTrue() bool { return true }

type fakeGeneratorService struct {
	buildFunc        func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error)
	buildArticleFunc func(ctx context.Context, articleID uuid.UUID) (*generator.BuildResult, error)
	cleanFunc        func(ctx context.Context) error
}

func (f *fakeGeneratorService) Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	if f.buildFunc == nil {
		return &generator.BuildResult{}, nil
	}
	return f.buildFunc(ctx, opts)
}

func (f *fakeGeneratorService) BuildArticle(ctx context.Context, articleID uuid.UUID) (*generator.BuildResult, error) {
	if f.buildArticleFunc == nil {
		return &generator.BuildResult{}, nil
	}
	return f.buildArticleFunc(ctx, articleID)
}

func (f *fakeGeneratorService) Clean(ctx context.Context) error {
	if f.cleanFunc == nil {
		return nil
	}
	return f.cleanFunc(ctx)
}

func TestBuildSiteHandler_Execute_Build(t *testing.T) {
	var capturedOpts generator.BuildOptions
	callbackInvoked := false

	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			capturedOpts = opts
			return &generator.BuildResult{ArticlesBuilt: 3}, nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})

	cmd := BuildSiteCommand{IncludeDrafts: true}
	cmd.ResultCallback = func(env ResultEnvelope) {
		callbackInvoked = true
		if env.Result == nil {
			t.Fatalf("expected build result, got nil")
		}
		if env.Result.ArticlesBuilt != 3 {
			t.Fatalf("expected ArticlesBuilt 3, got %d", env.Result.ArticlesBuilt)
		}
		if env.Metadata["operation"] != "build" {
			t.Fatalf("expected operation build, got %v", env.Metadata["operation"])
		}
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute build: %v", err)
	}

	if !capturedOpts.IncludeDrafts {
		t.Fatal("expected IncludeDrafts to pass through")
	}
	if capturedOpts.DryRun {
		t.Fatal("expected DryRun false")
	}
	if !callbackInvoked {
		t.Fatal("expected callback to be invoked")
	}
}

func TestBuildSiteHandler_Execute_SingleArticle(t *testing.T) {
	id := uuid.New()
	articleCalled := false

	svc := &fakeGeneratorService{
		buildArticleFunc: func(ctx context.Context, articleID uuid.UUID) (*generator.BuildResult, error) {
			articleCalled = true
			if articleID != id {
				t.Fatalf("expected article id %s, got %s", id, articleID)
			}
			return &generator.BuildResult{ArticlesBuilt: 1}, nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})

	callbackInvoked := false
	cmd := BuildSiteCommand{ArticleIDs: []uuid.UUID{id}}
	cmd.ResultCallback = func(env ResultEnvelope) {
		callbackInvoked = true
		if env.Metadata["operation"] != "build_article" {
			t.Fatalf("expected operation build_article, got %v", env.Metadata["operation"])
		}
		if env.Metadata["article_id"] != id {
			t.Fatalf("expected article id metadata, got %v", env.Metadata["article_id"])
		}
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute single article build: %v", err)
	}
	if !articleCalled {
		t.Fatal("expected BuildArticle to be called")
	}
	if !callbackInvoked {
		t.Fatal("expected callback to be invoked")
	}
}

func TestBuildSiteHandler_Execute_DryRunUsesBatchBuild(t *testing.T) {
	id := uuid.New()
	var capturedOpts generator.BuildOptions

	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			capturedOpts = opts
			return &generator.BuildResult{DryRun: true}, nil
		},
		buildArticleFunc: func(ctx context.Context, articleID uuid.UUID) (*generator.BuildResult, error) {
			t.Fatal("dry run must not route through BuildArticle")
			return nil, nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})

	cmd := BuildSiteCommand{ArticleIDs: []uuid.UUID{id}, DryRun: true}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute dry run: %v", err)
	}
	if !capturedOpts.DryRun {
		t.Fatal("expected DryRun to pass through")
	}
	if len(capturedOpts.ArticleIDs) != 1 || capturedOpts.ArticleIDs[0] != id {
		t.Fatalf("expected article filter to pass through, got %v", capturedOpts.ArticleIDs)
	}
}

func TestBuildSiteHandler_Execute_FeatureDisabled(t *testing.T) {
	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			t.Fatal("build must not run when the feature is disabled")
			return nil, nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{})

	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestBuildSiteCommand_Validate(t *testing.T) {
	if err := (BuildSiteCommand{ArticleIDs: []uuid.UUID{uuid.Nil}}).Validate(); err == nil {
		t.Fatal("expected nil UUID to fail validation")
	}
	if err := (BuildSiteCommand{ArticleIDs: []uuid.UUID{uuid.New()}}).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestCleanSiteHandler_Execute(t *testing.T) {
	cleanCalled := false
	svc := &fakeGeneratorService{
		cleanFunc: func(ctx context.Context) error {
			cleanCalled = true
			return nil
		},
	}

	handler := NewCleanSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	if err := handler.Execute(context.Background(), CleanSiteCommand{}); err != nil {
		t.Fatalf("execute clean: %v", err)
	}
	if !cleanCalled {
		t.Fatal("expected Clean to be called")
	}
}

func TestCleanSiteHandler_Execute_FeatureDisabled(t *testing.T) {
	handler := NewCleanSiteHandler(&fakeGeneratorService{}, nil, FeatureGates{})
	err := handler.Execute(context.Background(), CleanSiteCommand{})
	if !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}
