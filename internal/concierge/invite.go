package concierge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lewisedginton/teambuilder_concierge/internal/completion"
	"github.com/lewisedginton/teambuilder_concierge/internal/directory"
	"github.com/lewisedginton/teambuilder_concierge/internal/prompt_manager"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

var (
	ErrSenderNotFound   = errors.New("sender not found")
	ErrReceiverNotFound = errors.New("user not found")
	ErrNoDirectory      = errors.New("no user directory configured")
)

type InviteRequest struct {
	SenderID       string `json:"senderId"`
	ReceiverID     string `json:"receiverId"`
	ProjectContext string `json:"projectContext"`
}

type Invite struct {
	Draft        string `json:"draft"`
	ReceiverName string `json:"receiverName"`
}

// DraftInvite writes a short invitation from one directory user to another.
// Missing users are reported with errors matching directory.ErrNotFound; a
// failed completion yields the provider placeholder as the draft.
func (o *Orchestrator) DraftInvite(ctx context.Context, req InviteRequest) (Invite, error) {
	if o.directory == nil {
		return Invite{}, ErrNoDirectory
	}
	ctx, _ = logger.EnsureCorrelationID(ctx)
	log := logger.FromContext(ctx, o.log)

	sender, err := o.directory.GetUser(ctx, strings.TrimSpace(req.SenderID))
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return Invite{}, fmt.Errorf("%w: %w", ErrSenderNotFound, err)
		}
		return Invite{}, fmt.Errorf("load sender: %w", err)
	}
	receiver, err := o.directory.GetUser(ctx, strings.TrimSpace(req.ReceiverID))
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return Invite{}, fmt.Errorf("%w: %w", ErrReceiverNotFound, err)
		}
		return Invite{}, fmt.Errorf("load receiver: %w", err)
	}

	prompt, err := o.prompts.Invite(prompt_manager.InviteInput{
		Sender:         prompt_manager.Person{Name: sender.Name, Skills: sender.Skills},
		Receiver:       prompt_manager.Person{Name: receiver.Name, Skills: receiver.Skills},
		ProjectContext: req.ProjectContext,
	})
	if err != nil {
		return Invite{}, fmt.Errorf("render invite prompt: %w", err)
	}

	draft, err := o.completer.Complete(ctx, prompt, completion.Options{})
	if err != nil {
		log.Warn("Invite draft degraded to placeholder", logger.ErrorField(err))
		draft = completion.Placeholder(err)
	}
	return Invite{Draft: draft, ReceiverName: receiver.Name}, nil
}

