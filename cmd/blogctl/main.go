// Command blogctl lists, reads and edits posts through the client repository.
// It talks to the blog API and falls back to the local store when offline.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/quickblog-api/internal/client"
	"github.com/quickblog-api/internal/config"
	"github.com/quickblog-api/internal/filter"
	"github.com/quickblog-api/internal/models"
	"github.com/quickblog-api/internal/render"
	"github.com/quickblog-api/internal/textutil"
	"github.com/quickblog-api/internal/validation"
	"github.com/quickblog-api/pkg/logger"
)

const usage = `Usage: blogctl <command> [flags]

Commands:
  list         list posts (-search, -tag, -range, -sort, -status, -json)
  show <slug>  print one post (-html, -json)
  create       create a post (-title, -content | -content-file, -excerpt, -tags, -status)
  update <id>  update the given fields of a post
  delete <id>  delete a post
  tags         list tags with post counts
  clear-local  empty the local fallback store
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "blogctl: %v\n", err)
		return 1
	}
	log := logger.New("blogctl")

	repo, err := client.New(&cfg.Client, log)
	if err != nil {
		fmt.Fprintf(stderr, "blogctl: %v\n", err)
		return 1
	}
	defer repo.Close()

	ctx := context.Background()
	if cfg.Client.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Client.Timeout)
		defer cancel()
	}

	c := &cli{repo: repo, stdin: stdin, stdout: stdout, stderr: stderr}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		err = c.list(ctx, rest)
	case "show":
		err = c.show(ctx, rest)
	case "create":
		err = c.create(ctx, rest)
	case "update":
		err = c.update(ctx, rest)
	case "delete":
		err = c.delete(ctx, rest)
	case "tags":
		err = c.tags(ctx)
	case "clear-local":
		err = c.clearLocal(ctx)
	default:
		fmt.Fprintf(stderr, "blogctl: unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	if err != nil {
		printError(stderr, err)
		if errors.Is(err, flag.ErrHelp) || errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

var errUsage = errors.New("invalid usage")

type cli struct {
	repo   *client.Repository
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (c *cli) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

func (c *cli) list(ctx context.Context, args []string) error {
	fs := c.flagSet("list")
	search := fs.String("search", "", "case-insensitive text to look for")
	tags := fs.String("tag", "", "comma-separated tags; posts with any of them are kept")
	dateRange := fs.String("range", "all", "all, today, week, month or year")
	sortBy := fs.String("sort", "newest", "newest, oldest, popular or alphabetical")
	status := fs.String("status", "all", "all, published or draft")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	criteria := filter.Criteria{Search: *search, Tags: splitTags(*tags)}
	var err error
	if criteria.DateRange, err = filter.ParseDateRange(*dateRange); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if criteria.SortBy, err = filter.ParseSortOption(*sortBy); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if criteria.Status, err = filter.ParseStatusFilter(*status); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	posts := filter.Apply(c.repo.GetAllPosts(ctx), criteria)
	if *asJSON {
		return writeJSON(c.stdout, posts)
	}

	w := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tSTATUS\tSLUG\tTITLE\tTAGS")
	for _, p := range posts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.CreatedAt.Local().Format("2006-01-02 15:04"),
			p.Status, p.Slug, p.Title, strings.Join(p.Tags, ","))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if n := criteria.ActiveCount(); n > 0 {
		fmt.Fprintf(c.stderr, "%d posts (%d filters active, mode %s)\n", len(posts), n, c.repo.Mode())
	}
	return nil
}

func (c *cli) show(ctx context.Context, args []string) error {
	fs := c.flagSet("show")
	asHTML := fs.Bool("html", false, "render the content as HTML")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: show takes exactly one slug", errUsage)
	}

	slug := fs.Arg(0)
	post, ok := c.repo.GetPostBySlug(ctx, slug)
	if !ok {
		return fmt.Errorf("post %q not found", slug)
	}
	if *asJSON {
		return writeJSON(c.stdout, post)
	}

	content := post.Content
	if *asHTML {
		html, err := render.HTML(content)
		if err != nil {
			return err
		}
		content = html
	}

	fmt.Fprintf(c.stdout, "%s\n", post.Title)
	fmt.Fprintf(c.stdout, "id: %s  slug: %s  status: %s\n", post.ID, post.Slug, post.Status)
	fmt.Fprintf(c.stdout, "created: %s  updated: %s\n",
		post.CreatedAt.Format(time.RFC3339), post.UpdatedAt.Format(time.RFC3339))
	if len(post.Tags) > 0 {
		fmt.Fprintf(c.stdout, "tags: %s\n", strings.Join(post.Tags, ", "))
	}
	fmt.Fprintf(c.stdout, "reading time: %d min (%d words)\n\n",
		textutil.ReadingTime(post.Content), textutil.WordCount(post.Content))
	fmt.Fprintln(c.stdout, content)
	return nil
}

// postFlags registers the editable post fields on fs
type postFlags struct {
	title       *string
	content     *string
	contentFile *string
	excerpt     *string
	tags        *string
	status      *string
}

func registerPostFlags(fs *flag.FlagSet) *postFlags {
	return &postFlags{
		title:       fs.String("title", "", "post title"),
		content:     fs.String("content", "", "post content (Markdown or HTML)"),
		contentFile: fs.String("content-file", "", "read content from a file, - for stdin"),
		excerpt:     fs.String("excerpt", "", "short summary; generated from content when empty"),
		tags:        fs.String("tags", "", "comma-separated tags"),
		status:      fs.String("status", "", "draft or published"),
	}
}

func (c *cli) readContent(f *postFlags) (string, error) {
	if *f.contentFile == "" {
		return *f.content, nil
	}

	var data []byte
	var err error
	if *f.contentFile == "-" {
		data, err = io.ReadAll(c.stdin)
	} else {
		data, err = os.ReadFile(*f.contentFile)
	}
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return string(data), nil
}

func (c *cli) create(ctx context.Context, args []string) error {
	fs := c.flagSet("create")
	f := registerPostFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	content, err := c.readContent(f)
	if err != nil {
		return err
	}

	post, err := c.repo.CreatePost(ctx, &models.CreatePostRequest{
		Title:   *f.title,
		Content: content,
		Excerpt: *f.excerpt,
		Tags:    splitTags(*f.tags),
		Status:  models.PostStatus(*f.status),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "created %s (%s)\n", post.ID, post.Slug)
	return nil
}

func (c *cli) update(ctx context.Context, args []string) error {
	fs := c.flagSet("update")
	f := registerPostFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: update takes exactly one id", errUsage)
	}

	req := &models.UpdatePostRequest{}
	var contentErr error
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "title":
			req.Title = f.title
		case "content", "content-file":
			content, err := c.readContent(f)
			if err != nil {
				contentErr = err
				return
			}
			req.Content = &content
		case "excerpt":
			req.Excerpt = f.excerpt
		case "tags":
			tags := splitTags(*f.tags)
			req.Tags = &tags
		case "status":
			status := models.PostStatus(*f.status)
			req.Status = &status
		}
	})
	if contentErr != nil {
		return contentErr
	}

	post, err := c.repo.UpdatePost(ctx, fs.Arg(0), req)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "updated %s (%s)\n", post.ID, post.Slug)
	return nil
}

func (c *cli) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: delete takes exactly one id", errUsage)
	}
	if err := c.repo.DeletePost(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "deleted %s\n", args[0])
	return nil
}

func (c *cli) tags(ctx context.Context) error {
	posts := c.repo.GetAllPosts(ctx)
	counts := filter.TagCounts(posts)

	w := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	for _, tag := range filter.AllTags(posts) {
		fmt.Fprintf(w, "%s\t%d\n", tag, counts[tag])
	}
	return w.Flush()
}

func (c *cli) clearLocal(ctx context.Context) error {
	if err := c.repo.ClearLocal(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "local store cleared")
	return nil
}

func splitTags(s string) []string {
	tags := []string{}
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printError(w io.Writer, err error) {
	if errors.Is(err, flag.ErrHelp) {
		return
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fmt.Fprintln(w, "blogctl: the post is not valid:")
		for _, ve := range verrs {
			fmt.Fprintf(w, "  - %s: %s\n", ve.Field, ve.Message)
		}
		return
	}
	fmt.Fprintf(w, "blogctl: %v\n", err)
}
