package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/courseport/internal/links"
	"github.com/hyperifyio/courseport/internal/pipeline"
	"github.com/hyperifyio/courseport/internal/portal"
	"github.com/hyperifyio/courseport/internal/store"
)

// Authorizer is the slice of the store the router needs for access control
// and bookkeeping.
type Authorizer interface {
	IsAuthorized(ctx context.Context, userID int64) (bool, error)
	AddUser(ctx context.Context, userID int64, name string) error
	RemoveUser(ctx context.Context, userID int64) error
	LogActivity(ctx context.Context, a *store.Activity) error
	ListActivities(ctx context.Context, userID int64, limit int64) ([]store.Activity, error)
	CountActivities(ctx context.Context) (total, succeeded int64, err error)
}

// Runner turns URLs into local artifacts.
type Runner interface {
	Run(ctx context.Context, rawURL string) (*pipeline.Artifact, error)
	RunBatch(ctx context.Context, urls []string) ([]pipeline.Artifact, []pipeline.Failure)
}

// Publisher renders a portal page over a set of artifacts.
type Publisher interface {
	Render(title string, items []portal.Item) (string, error)
}

// Attachment is an uploaded file carried with a message.
type Attachment struct {
	Name string
	Data []byte
}

// Message is one inbound chat message.
type Message struct {
	UserID     int64
	Username   string
	FirstName  string
	LastName   string
	Text       string
	Attachment *Attachment
}

// Reply is what the router wants sent back. FilePath, when set, points at a
// local artifact to attach.
type Reply struct {
	Text     string
	FilePath string
}

// Router maps chat messages onto pipeline and store operations.
type Router struct {
	Store    Authorizer
	Pipeline Runner
	Portal   Publisher
	AdminID  int64
	Log      zerolog.Logger

	// artifacts collected since the last /portal, per user
	mu        sync.Mutex
	collected map[int64][]pipeline.Artifact
}

func NewRouter(st Authorizer, p Runner, pub Publisher, adminID int64, log zerolog.Logger) *Router {
	return &Router{
		Store:     st,
		Pipeline:  p,
		Portal:    pub,
		AdminID:   adminID,
		Log:       log,
		collected: make(map[int64][]pipeline.Artifact),
	}
}

const helpText = `Commands:
/start - introduction
/help - this message
/portal - build an HTML portal from your extracted content
/adduser <id> <name> - allow a user (admin only)
/removeuser <id> - revoke a user (admin only)
/stats - usage summary (admin only)

Send a content URL to extract it, or upload a .txt file of links to
process them as a batch.`

// Handle routes one message and returns the replies to send, in order.
func (r *Router) Handle(ctx context.Context, msg Message) []Reply {
	cmd, args := splitCommand(msg.Text)

	switch cmd {
	case "/start":
		return []Reply{{Text: "Welcome. Send a course or content URL and I will fetch it for you. Use /help for the full command list."}}
	case "/help":
		return []Reply{{Text: helpText}}
	}

	ok, err := r.Store.IsAuthorized(ctx, msg.UserID)
	if err != nil {
		r.Log.Error().Err(err).Int64("user", msg.UserID).Msg("authorization check failed")
		return []Reply{{Text: "Internal error, try again later."}}
	}
	if !ok && msg.UserID != r.AdminID {
		return []Reply{{Text: "You are not authorized to use this service."}}
	}

	switch cmd {
	case "/portal":
		return r.handlePortal(msg)
	case "/adduser":
		return r.handleAddUser(ctx, msg, args)
	case "/removeuser":
		return r.handleRemoveUser(ctx, msg, args)
	case "/stats":
		return r.handleStats(ctx, msg)
	}

	if msg.Attachment != nil {
		return r.handleAttachment(ctx, msg)
	}
	if urls := links.Extract(msg.Text); len(urls) > 0 {
		return r.handleURLs(ctx, msg, urls)
	}
	return []Reply{{Text: "Send a content URL, a .txt file of links, or /help."}}
}

func (r *Router) handleURLs(ctx context.Context, msg Message, urls []string) []Reply {
	var replies []Reply
	for _, rawURL := range urls {
		art, err := r.Pipeline.Run(ctx, rawURL)

		activity := &store.Activity{
			UserID:   msg.UserID,
			Username: msg.Username,
			URL:      rawURL,
		}
		if err != nil {
			activity.Succeeded = false
			activity.Detail = err.Error()
			if logErr := r.Store.LogActivity(ctx, activity); logErr != nil {
				r.Log.Warn().Err(logErr).Msg("activity log write failed")
			}
			replies = append(replies, Reply{Text: fmt.Sprintf("Failed to process %s: %v", rawURL, err)})
			continue
		}

		activity.Succeeded = true
		activity.Platform = string(art.Descriptor.Platform)
		activity.Title = art.Descriptor.Title
		if logErr := r.Store.LogActivity(ctx, activity); logErr != nil {
			r.Log.Warn().Err(logErr).Msg("activity log write failed")
		}

		r.collect(msg.UserID, *art)
		replies = append(replies, Reply{
			Text:     fmt.Sprintf("%s (%s)", art.Descriptor.Title, art.Descriptor.MediaType),
			FilePath: art.Path,
		})
	}
	return replies
}

func (r *Router) handleAttachment(ctx context.Context, msg Message) []Reply {
	att := msg.Attachment
	if !strings.HasSuffix(strings.ToLower(att.Name), ".txt") {
		return []Reply{{Text: "Only .txt link lists are accepted as uploads."}}
	}
	urls := links.Extract(string(att.Data))
	if len(urls) == 0 {
		return []Reply{{Text: "No links found in the uploaded file."}}
	}

	arts, failures := r.Pipeline.RunBatch(ctx, urls)
	for i := range arts {
		activity := &store.Activity{
			UserID:    msg.UserID,
			Username:  msg.Username,
			URL:       arts[i].Descriptor.DownloadURL,
			Platform:  string(arts[i].Descriptor.Platform),
			Title:     arts[i].Descriptor.Title,
			Succeeded: true,
		}
		if err := r.Store.LogActivity(ctx, activity); err != nil {
			r.Log.Warn().Err(err).Msg("activity log write failed")
		}
	}
	for _, f := range failures {
		activity := &store.Activity{
			UserID:   msg.UserID,
			Username: msg.Username,
			URL:      f.URL,
			Detail:   f.Reason(),
		}
		if err := r.Store.LogActivity(ctx, activity); err != nil {
			r.Log.Warn().Err(err).Msg("activity log write failed")
		}
	}
	r.collect(msg.UserID, arts...)

	replies := []Reply{{Text: fmt.Sprintf("Processed %d link(s): %d succeeded, %d failed.", len(urls), len(arts), len(failures))}}
	for _, a := range arts {
		replies = append(replies, Reply{
			Text:     fmt.Sprintf("%s (%s)", a.Descriptor.Title, a.Descriptor.MediaType),
			FilePath: a.Path,
		})
	}
	for _, f := range failures {
		replies = append(replies, Reply{Text: fmt.Sprintf("Failed to process %s: %s", f.URL, f.Reason())})
	}
	return replies
}

func (r *Router) collect(userID int64, arts ...pipeline.Artifact) {
	r.mu.Lock()
	r.collected[userID] = append(r.collected[userID], arts...)
	r.mu.Unlock()
}

func (r *Router) handlePortal(msg Message) []Reply {
	r.mu.Lock()
	arts := r.collected[msg.UserID]
	r.mu.Unlock()
	if len(arts) == 0 {
		return []Reply{{Text: "Nothing extracted yet. Send some URLs first."}}
	}

	items := make([]portal.Item, 0, len(arts))
	for _, a := range arts {
		items = append(items, portal.ItemFromArtifact(a))
	}
	path, err := r.Portal.Render(displayName(msg), items)
	if err != nil {
		r.Log.Error().Err(err).Msg("portal render failed")
		return []Reply{{Text: "Portal generation failed, try again later."}}
	}
	r.mu.Lock()
	delete(r.collected, msg.UserID)
	r.mu.Unlock()
	return []Reply{{
		Text:     fmt.Sprintf("Portal with %d item(s) ready.", len(items)),
		FilePath: path,
	}}
}

func (r *Router) handleAddUser(ctx context.Context, msg Message, args []string) []Reply {
	if msg.UserID != r.AdminID {
		return []Reply{{Text: "Admin only."}}
	}
	if len(args) < 2 {
		return []Reply{{Text: "Usage: /adduser <id> <name>"}}
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return []Reply{{Text: "User id must be a number."}}
	}
	if err := r.Store.AddUser(ctx, id, strings.Join(args[1:], " ")); err != nil {
		r.Log.Error().Err(err).Msg("add user failed")
		return []Reply{{Text: "Internal error, try again later."}}
	}
	return []Reply{{Text: fmt.Sprintf("User %d added.", id)}}
}

func (r *Router) handleRemoveUser(ctx context.Context, msg Message, args []string) []Reply {
	if msg.UserID != r.AdminID {
		return []Reply{{Text: "Admin only."}}
	}
	if len(args) < 1 {
		return []Reply{{Text: "Usage: /removeuser <id>"}}
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return []Reply{{Text: "User id must be a number."}}
	}
	if err := r.Store.RemoveUser(ctx, id); err != nil {
		r.Log.Error().Err(err).Msg("remove user failed")
		return []Reply{{Text: "Internal error, try again later."}}
	}
	return []Reply{{Text: fmt.Sprintf("User %d removed.", id)}}
}

func (r *Router) handleStats(ctx context.Context, msg Message) []Reply {
	if msg.UserID != r.AdminID {
		return []Reply{{Text: "Admin only."}}
	}
	total, succeeded, err := r.Store.CountActivities(ctx)
	if err != nil {
		r.Log.Error().Err(err).Msg("stats query failed")
		return []Reply{{Text: "Internal error, try again later."}}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Requests: %d total, %d succeeded, %d failed.", total, succeeded, total-succeeded)
	recent, err := r.Store.ListActivities(ctx, 0, 5)
	if err != nil {
		r.Log.Error().Err(err).Msg("stats query failed")
		return []Reply{{Text: "Internal error, try again later."}}
	}
	if len(recent) > 0 {
		b.WriteString("\nRecent:")
		for _, a := range recent {
			status := "ok"
			if !a.Succeeded {
				status = "failed"
			}
			fmt.Fprintf(&b, "\n%s %s (%s)", a.RequestedAt.Format("2006-01-02 15:04"), a.URL, status)
		}
	}
	return []Reply{{Text: b.String()}}
}

func splitCommand(text string) (string, []string) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

func displayName(msg Message) string {
	name := strings.TrimSpace(msg.FirstName + " " + msg.LastName)
	if name == "" {
		name = msg.Username
	}
	if name == "" {
		name = fmt.Sprintf("User %d", msg.UserID)
	}
	return name + "'s Content"
}
