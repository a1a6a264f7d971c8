package publish

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// IssueRequest describes one tracked issue to create.
type IssueRequest struct {
	Repo      string
	Title     string
	Body      string
	Labels    []string
	Assignees []string
}

// ProjectItemRequest describes one project draft item to create.
type ProjectItemRequest struct {
	Owner  string
	Number int
	Title  string
	Body   string
}

// Created identifies an issue created by the tracker.
type Created struct {
	URL    string
	Number int
}

// Invoker is the narrow capability used to reach the external tracker.
type Invoker interface {
	CreateIssue(ctx context.Context, req IssueRequest) (Created, error)
	CreateProjectItem(ctx context.Context, req ProjectItemRequest) error
}

// GH creates issues and project items by running the gh CLI.
type GH struct {
	Bin string
}

// NewGH returns a GH invoker for the given binary; empty means "gh".
func NewGH(bin string) *GH {
	if bin == "" {
		bin = "gh"
	}
	return &GH{Bin: bin}
}

// CreateIssue runs `gh issue create`, streaming the body on stdin.
func (g *GH) CreateIssue(ctx context.Context, req IssueRequest) (Created, error) {
	out, err := g.run(ctx, issueArgs(req, "-"), req.Body)
	if err != nil {
		return Created{}, err
	}
	return parseCreated(out), nil
}

// CreateProjectItem runs `gh project item-create`.
func (g *GH) CreateProjectItem(ctx context.Context, req ProjectItemRequest) error {
	_, err := g.run(ctx, projectArgs(req, req.Body), "")
	return err
}

func (g *GH) run(ctx context.Context, args []string, stdin string) (string, error) {
	if _, err := exec.LookPath(g.Bin); err != nil {
		return "", fmt.Errorf("%s CLI not found: install from https://cli.github.com", g.Bin)
	}
	cmd := exec.CommandContext(ctx, g.Bin, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%s %s failed: %s", g.Bin, strings.Join(args[:2], " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%s %s: %w", g.Bin, strings.Join(args[:2], " "), err)
	}
	return string(output), nil
}

func issueArgs(req IssueRequest, bodyFile string) []string {
	args := []string{"issue", "create", "--repo", req.Repo, "--title", req.Title, "--body-file", bodyFile}
	for _, l := range req.Labels {
		args = append(args, "--label", l)
	}
	for _, a := range req.Assignees {
		args = append(args, "--assignee", a)
	}
	return args
}

func projectArgs(req ProjectItemRequest, body string) []string {
	return []string{"project", "item-create", strconv.Itoa(req.Number), "--owner", req.Owner, "--title", req.Title, "--body", body}
}

var issueNumberRe = regexp.MustCompile(`/(?:issues|pull)/(\d+)/?$`)

// parseCreated takes the last non-empty line of gh output as the issue URL.
func parseCreated(out string) Created {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	url := strings.TrimSpace(lines[len(lines)-1])
	c := Created{URL: url}
	if m := issueNumberRe.FindStringSubmatch(url); m != nil {
		c.Number, _ = strconv.Atoi(m[1])
	}
	return c
}

// Call is one invocation captured by a Recorder.
type Call struct {
	Issue   *IssueRequest
	Project *ProjectItemRequest
}

// Recorder is an Invoker that records calls instead of running anything.
// Titles listed in Fail return the mapped error.
type Recorder struct {
	Calls []Call
	Fail  map[string]error
	next  int
}

func (r *Recorder) CreateIssue(_ context.Context, req IssueRequest) (Created, error) {
	r.Calls = append(r.Calls, Call{Issue: &req})
	if err := r.Fail[req.Title]; err != nil {
		return Created{}, err
	}
	r.next++
	return Created{URL: fmt.Sprintf("https://github.com/%s/issues/%d", req.Repo, r.next), Number: r.next}, nil
}

func (r *Recorder) CreateProjectItem(_ context.Context, req ProjectItemRequest) error {
	r.Calls = append(r.Calls, Call{Project: &req})
	return r.Fail[req.Title]
}
