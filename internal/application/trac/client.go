// Package trac is the application-facing client over a Trac XML-RPC
// channel. It turns tickets and attachments into the positional
// argument lists the remote interface expects, and rebuilds domain
// objects from the returned wire tuples.
package trac

import (
	"context"
	"fmt"

	"github.com/orris-inc/tracgate/internal/domain/attachment"
	"github.com/orris-inc/tracgate/internal/domain/ticket"
	"github.com/orris-inc/tracgate/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/tracgate/internal/infrastructure/rpc"
	"github.com/orris-inc/tracgate/internal/shared/errors"
	"github.com/orris-inc/tracgate/internal/shared/logger"
	"github.com/orris-inc/tracgate/internal/shared/mapper"
)

// Default comments attached to changes issued without an explicit
// comment; the remote interface requires one on every change.
const (
	DefaultUpdateComment = "Automated ticket update via tracgate."
	DefaultAssignComment = "Automated ticket assignment via tracgate."
	DefaultCloseComment  = "Automated ticket closing via tracgate."
)

// Client wraps a channel to a Trac endpoint, live or fake. Arguments
// are checked locally before any remote call: a nil ticket, a missing
// ID or an invalid attribute value never leaves the process.
type Client struct {
	caller rpc.Caller
	logger logger.Interface
}

// NewClient builds a client over an already opened channel.
func NewClient(caller rpc.Caller, log logger.Interface) *Client {
	return &Client{
		caller: caller,
		logger: log.Named("trac"),
	}
}

// CreateTicket registers the ticket with the endpoint and stamps the
// assigned ID onto it. Summary and description are mandatory; all
// other attributes travel in the value map, with required unset ones
// falling back to their schema defaults. With notify set, the endpoint
// mails the reporter about the new ticket.
func (c *Client) CreateTicket(ctx context.Context, t *ticket.Ticket, notify bool) (int, error) {
	if t == nil {
		return 0, errors.NewValidationError("no ticket given")
	}
	if err := t.CheckAttributeValidity(ticket.AttrSummary); err != nil {
		return 0, err
	}
	if err := t.CheckAttributeValidity(ticket.AttrDescription); err != nil {
		return 0, err
	}

	valueMap, err := t.CreationValueMap()
	if err != nil {
		return 0, err
	}

	var id int
	args := []any{*t.Summary, *t.Description, valueMap, notify}
	if err := c.caller.Call(ctx, "ticket.create", args, &id); err != nil {
		return 0, err
	}

	t.ID = &id
	c.logger.Infow("ticket created", "ticket_id", id)
	return id, nil
}

// GetTicket fetches the ticket with the given ID.
func (c *Client) GetTicket(ctx context.Context, id int) (*ticket.Ticket, error) {
	if err := checkTicketID(id); err != nil {
		return nil, err
	}

	var data []any
	if err := c.caller.Call(ctx, "ticket.get", []any{id}, &data); err != nil {
		return nil, err
	}
	return ticket.FromTracData(data)
}

// UpdateTicket pushes the ticket's set attributes to the endpoint and
// returns its refreshed state. An empty comment falls back to
// DefaultUpdateComment. A ticket with nothing set still goes through:
// the endpoint records the comment without changing attributes. With
// notify set, the endpoint mails reporter, owner and cc.
func (c *Client) UpdateTicket(ctx context.Context, t *ticket.Ticket, comment string, notify bool) (*ticket.Ticket, error) {
	if t == nil {
		return nil, errors.NewValidationError("no ticket given")
	}
	if t.ID == nil {
		return nil, errors.NewValidationError("cannot update a ticket without an ID")
	}
	if err := checkTicketID(*t.ID); err != nil {
		return nil, err
	}

	valueMap, err := t.UpdateValueMap()
	if err != nil {
		return nil, err
	}
	if comment == "" {
		comment = DefaultUpdateComment
	}

	var data []any
	args := []any{*t.ID, comment, valueMap, notify}
	if err := c.caller.Call(ctx, "ticket.update", args, &data); err != nil {
		return nil, err
	}

	c.logger.Infow("ticket updated", "ticket_id", *t.ID)
	return ticket.FromTracData(data)
}

// AssignTicket hands the ticket to a new owner. The update touches the
// owner field and nothing else; any status transition is the server's
// workflow decision.
func (c *Client) AssignTicket(ctx context.Context, id int, owner, comment string, notify bool) (*ticket.Ticket, error) {
	if owner == "" {
		return nil, errors.NewValidationError("no owner given")
	}

	t := ticket.ForUpdate(id)
	t.Owner = &owner

	if comment == "" {
		comment = DefaultAssignComment
	}
	return c.UpdateTicket(ctx, t, comment, notify)
}

// CloseTicket closes the ticket with the given resolution.
func (c *Client) CloseTicket(ctx context.Context, id int, resolution, comment string, notify bool) (*ticket.Ticket, error) {
	t := ticket.ForUpdate(id)
	status := valueobjects.StatusClosed.String()
	t.Status = &status
	t.Resolution = &resolution

	if comment == "" {
		comment = DefaultCloseComment
	}
	return c.UpdateTicket(ctx, t, comment, notify)
}

// DeleteTicket removes the ticket from the endpoint. It reports true
// when the endpoint acknowledged the removal.
func (c *Client) DeleteTicket(ctx context.Context, id int) (bool, error) {
	if err := checkTicketID(id); err != nil {
		return false, err
	}

	var ret int
	if err := c.caller.Call(ctx, "ticket.delete", []any{id}, &ret); err != nil {
		return false, err
	}

	c.logger.Infow("ticket deleted", "ticket_id", id)
	return ret == 0, nil
}

// AddAttachment uploads the attachment's content to the given ticket
// and returns the file name it was stored under, which differs from the
// requested one when replace is false and the name was already taken.
func (c *Client) AddAttachment(ctx context.Context, ticketID int, att *attachment.Attachment, replace bool) (string, error) {
	if err := checkTicketID(ticketID); err != nil {
		return "", err
	}
	if att == nil {
		return "", errors.NewValidationError("no attachment given")
	}
	if att.FileName == "" {
		return "", errors.NewValidationError("attachment has no file name")
	}
	if !att.Content.IsSet() {
		return "", errors.NewValidationError("attachment has no content")
	}

	payload, err := att.UploadPayload()
	if err != nil {
		return "", err
	}

	var stored string
	args := []any{ticketID, att.FileName, att.Description, payload, replace}
	if err := c.caller.Call(ctx, "ticket.putAttachment", args, &stored); err != nil {
		return "", err
	}

	c.logger.Infow("attachment uploaded",
		"ticket_id", ticketID, "file_name", stored, "size", len(payload))
	return stored, nil
}

// GetAttachment fetches the raw content of one attached file.
func (c *Client) GetAttachment(ctx context.Context, ticketID int, fileName string) ([]byte, error) {
	if err := checkTicketID(ticketID); err != nil {
		return nil, err
	}
	if fileName == "" {
		return nil, errors.NewValidationError("no file name given")
	}

	var data []byte
	if err := c.caller.Call(ctx, "ticket.getAttachment", []any{ticketID, fileName}, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// GetAllTicketAttachments lists the ticket's attachments. The listing
// carries metadata only; with withContent set, each file's payload is
// fetched with a follow-up call and filled in.
func (c *Client) GetAllTicketAttachments(ctx context.Context, ticketID int, withContent bool) ([]*attachment.Attachment, error) {
	if err := checkTicketID(ticketID); err != nil {
		return nil, err
	}

	var listing []any
	if err := c.caller.Call(ctx, "ticket.listAttachments", []any{ticketID}, &listing); err != nil {
		return nil, err
	}

	return mapper.MapSliceWithError(listing, func(entry any) (*attachment.Attachment, error) {
		tuple, ok := entry.([]any)
		if !ok {
			return nil, errors.NewInternalError(
				fmt.Sprintf("malformed attachment listing: expected tuple, got %T", entry))
		}
		att, err := attachment.FromTracData(tuple)
		if err != nil {
			return nil, err
		}

		if withContent {
			data, err := c.GetAttachment(ctx, ticketID, att.FileName)
			if err != nil {
				return nil, err
			}
			att.Content = attachment.BytesContent(data)
		}
		return att, nil
	})
}

// DeleteAttachment removes one attached file from the ticket. It
// reports the endpoint's acknowledgement.
func (c *Client) DeleteAttachment(ctx context.Context, ticketID int, fileName string) (bool, error) {
	if err := checkTicketID(ticketID); err != nil {
		return false, err
	}
	if fileName == "" {
		return false, errors.NewValidationError("no file name given")
	}

	var ok bool
	if err := c.caller.Call(ctx, "ticket.deleteAttachment", []any{ticketID, fileName}, &ok); err != nil {
		return false, err
	}

	c.logger.Infow("attachment deleted", "ticket_id", ticketID, "file_name", fileName)
	return ok, nil
}

func checkTicketID(id int) error {
	if id <= 0 {
		return errors.NewValidationError(fmt.Sprintf("invalid ticket ID %d", id))
	}
	return nil
}
