package trac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/tracgate/internal/domain/attachment"
	"github.com/orris-inc/tracgate/internal/domain/ticket"
	"github.com/orris-inc/tracgate/internal/infrastructure/fake"
	"github.com/orris-inc/tracgate/internal/shared/config"
	"github.com/orris-inc/tracgate/internal/shared/errors"
	"github.com/orris-inc/tracgate/internal/shared/logger"
)

type recordedCall struct {
	method string
	args   []any
}

// stubCaller records every call and lets the test script the replies.
type stubCaller struct {
	calls  []recordedCall
	handle func(method string, args []any, reply any) error
}

func (s *stubCaller) Call(_ context.Context, method string, args []any, reply any) error {
	s.calls = append(s.calls, recordedCall{method: method, args: args})
	if s.handle == nil {
		return nil
	}
	return s.handle(method, args, reply)
}

func newStubClient(handle func(method string, args []any, reply any) error) (*Client, *stubCaller) {
	stub := &stubCaller{handle: handle}
	return NewClient(stub, logger.NewNop()), stub
}

func TestCreateTicketSendsPositionalArguments(t *testing.T) {
	client, stub := newStubClient(func(method string, args []any, reply any) error {
		*(reply.(*int)) = 5
		return nil
	})

	ticket := ticket.ForCreation("Login broken", "Cannot log in.")
	id, err := client.CreateTicket(context.Background(), ticket, false)
	require.NoError(t, err)
	assert.Equal(t, 5, id)

	require.NotNil(t, ticket.ID)
	assert.Equal(t, 5, *ticket.ID)

	require.Len(t, stub.calls, 1)
	call := stub.calls[0]
	assert.Equal(t, "ticket.create", call.method)
	require.Len(t, call.args, 4)
	assert.Equal(t, "Login broken", call.args[0])
	assert.Equal(t, "Cannot log in.", call.args[1])
	assert.Equal(t, false, call.args[3])

	valueMap := call.args[2].(map[string]string)
	assert.Equal(t, "task", valueMap["type"])
	assert.NotContains(t, valueMap, "summary")
}

func TestCreateTicketValidatesLocally(t *testing.T) {
	client, stub := newStubClient(nil)

	_, err := client.CreateTicket(context.Background(), nil, false)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	withoutSummary := ticket.New()
	withoutSummary.Description = strPtrT("d")
	_, err = client.CreateTicket(context.Background(), withoutSummary, false)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	// nothing ever went over the wire
	assert.Empty(t, stub.calls)
}

func TestGetTicketRejectsBadID(t *testing.T) {
	client, stub := newStubClient(nil)

	for _, id := range []int{0, -3} {
		_, err := client.GetTicket(context.Background(), id)
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	}
	assert.Empty(t, stub.calls)
}

func TestUpdateTicketDefaultsComment(t *testing.T) {
	client, stub := newStubClient(func(method string, args []any, reply any) error {
		*(reply.(*[]any)) = []any{1, nil, nil, map[string]any{}}
		return nil
	})

	_, err := client.UpdateTicket(context.Background(), ticket.ForUpdate(1), "", false)
	require.NoError(t, err)

	require.Len(t, stub.calls, 1)
	assert.Equal(t, DefaultUpdateComment, stub.calls[0].args[1])
}

func TestAssignAndCloseDefaultComments(t *testing.T) {
	client, stub := newStubClient(func(method string, args []any, reply any) error {
		*(reply.(*[]any)) = []any{1, nil, nil, map[string]any{}}
		return nil
	})
	ctx := context.Background()

	_, err := client.AssignTicket(ctx, 1, "thomas", "", false)
	require.NoError(t, err)
	_, err = client.CloseTicket(ctx, 1, "fixed", "", false)
	require.NoError(t, err)

	require.Len(t, stub.calls, 2)
	assert.Equal(t, DefaultAssignComment, stub.calls[0].args[1])
	assert.Equal(t, DefaultCloseComment, stub.calls[1].args[1])
}

func TestAssignTicketTouchesOnlyOwner(t *testing.T) {
	client, stub := newStubClient(func(method string, args []any, reply any) error {
		*(reply.(*[]any)) = []any{1, nil, nil, map[string]any{}}
		return nil
	})

	_, err := client.AssignTicket(context.Background(), 1, "thomas", "", false)
	require.NoError(t, err)

	require.Len(t, stub.calls, 1)
	valueMap := stub.calls[0].args[2].(map[string]string)
	assert.Equal(t, map[string]string{"owner": "thomas"}, valueMap)
}

func TestNotifyFlagIsForwarded(t *testing.T) {
	client, stub := newStubClient(func(method string, args []any, reply any) error {
		switch r := reply.(type) {
		case *int:
			*r = 1
		case *[]any:
			*r = []any{1, nil, nil, map[string]any{}}
		}
		return nil
	})
	ctx := context.Background()

	_, err := client.CreateTicket(ctx, ticket.ForCreation("s", "d"), true)
	require.NoError(t, err)
	_, err = client.UpdateTicket(ctx, ticket.ForUpdate(1), "c", true)
	require.NoError(t, err)
	_, err = client.AssignTicket(ctx, 1, "thomas", "c", true)
	require.NoError(t, err)
	_, err = client.CloseTicket(ctx, 1, "fixed", "c", true)
	require.NoError(t, err)

	require.Len(t, stub.calls, 4)
	for _, call := range stub.calls {
		assert.Equal(t, true, call.args[3], "method %s", call.method)
	}
}

func TestUpdateTicketKeepsExplicitComment(t *testing.T) {
	client, stub := newStubClient(func(method string, args []any, reply any) error {
		*(reply.(*[]any)) = []any{1, nil, nil, map[string]any{}}
		return nil
	})

	_, err := client.UpdateTicket(context.Background(), ticket.ForUpdate(1), "done deal", false)
	require.NoError(t, err)
	assert.Equal(t, "done deal", stub.calls[0].args[1])
}

func TestUpdateTicketRequiresID(t *testing.T) {
	client, stub := newStubClient(nil)

	_, err := client.UpdateTicket(context.Background(), ticket.New(), "c", false)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Empty(t, stub.calls)
}

func TestDeleteTicketInterpretsReturnCode(t *testing.T) {
	client, _ := newStubClient(func(method string, args []any, reply any) error {
		*(reply.(*int)) = 0
		return nil
	})
	ok, err := client.DeleteTicket(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	client, _ = newStubClient(func(method string, args []any, reply any) error {
		*(reply.(*int)) = 1
		return nil
	})
	ok, err = client.DeleteTicket(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddAttachmentValidatesLocally(t *testing.T) {
	client, stub := newStubClient(nil)
	ctx := context.Background()

	_, err := client.AddAttachment(ctx, 0, attachment.New("f", "", attachment.TextContent("x")), false)
	assert.True(t, errors.IsValidationError(err))

	_, err = client.AddAttachment(ctx, 1, nil, false)
	assert.True(t, errors.IsValidationError(err))

	_, err = client.AddAttachment(ctx, 1, attachment.New("", "", attachment.TextContent("x")), false)
	assert.True(t, errors.IsValidationError(err))

	_, err = client.AddAttachment(ctx, 1, attachment.New("f", "", attachment.Content{}), false)
	assert.True(t, errors.IsValidationError(err))

	assert.Empty(t, stub.calls)
}

func TestGetAllTicketAttachmentsFetchesContent(t *testing.T) {
	client, stub := newStubClient(func(method string, args []any, reply any) error {
		switch method {
		case "ticket.listAttachments":
			*(reply.(*[]any)) = []any{
				[]any{"core.dump", "crash dump", 7, nil, "duchess"},
			}
		case "ticket.getAttachment":
			*(reply.(*[]byte)) = []byte("payload")
		}
		return nil
	})

	attachments, err := client.GetAllTicketAttachments(context.Background(), 1, true)
	require.NoError(t, err)
	require.Len(t, attachments, 1)

	assert.Equal(t, "core.dump", attachments[0].FileName)
	assert.Equal(t, []byte("payload"), attachments[0].Content.Bytes())

	require.Len(t, stub.calls, 2)
	assert.Equal(t, "ticket.listAttachments", stub.calls[0].method)
	assert.Equal(t, "ticket.getAttachment", stub.calls[1].method)
}

func TestGetAllTicketAttachmentsMetadataOnly(t *testing.T) {
	client, stub := newStubClient(func(method string, args []any, reply any) error {
		*(reply.(*[]any)) = []any{
			[]any{"core.dump", "crash dump", 7, nil, "duchess"},
		}
		return nil
	})

	attachments, err := client.GetAllTicketAttachments(context.Background(), 1, false)
	require.NoError(t, err)
	require.Len(t, attachments, 1)

	assert.False(t, attachments[0].Content.IsSet())
	assert.Len(t, stub.calls, 1)
}

func newFakeClient(t *testing.T) *Client {
	t.Helper()
	cfg := &config.TracConfig{
		Realm:     "company.com/trac/login/xmlrpc",
		Username:  "duchess",
		Password:  "pw",
		LoadDummy: true,
	}
	client, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	return client
}

func TestTicketLifecycleAgainstFake(t *testing.T) {
	client := newFakeClient(t)
	ctx := context.Background()

	created := ticket.ForCreation("Login broken", "Cannot log in.")
	created.Priority = strPtrT("high")

	id, err := client.CreateTicket(ctx, created, false)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	fetched, err := client.GetTicket(ctx, id)
	require.NoError(t, err)
	assert.True(t, fetched.Equal(created))
	assert.Equal(t, "Login broken", *fetched.Summary)
	assert.Equal(t, "high", *fetched.Priority)
	assert.Equal(t, "duchess", *fetched.Reporter)
	assert.Nil(t, fetched.Status)

	assigned, err := client.AssignTicket(ctx, id, "thomas", "", false)
	require.NoError(t, err)
	assert.Equal(t, "thomas", *assigned.Owner)
	// assignment touches ownership only; status stays whatever it was
	assert.Nil(t, assigned.Status)

	closed, err := client.CloseTicket(ctx, id, "fixed", "", false)
	require.NoError(t, err)
	assert.Equal(t, "closed", *closed.Status)
	assert.Equal(t, "fixed", *closed.Resolution)

	ok, err := client.DeleteTicket(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = client.GetTicket(ctx, id)
	require.Error(t, err)
	assert.True(t, errors.IsRemoteFault(err))
}

func TestAttachmentLifecycleAgainstFake(t *testing.T) {
	client := newFakeClient(t)
	ctx := context.Background()

	id, err := client.CreateTicket(ctx, ticket.ForCreation("s", "d"), false)
	require.NoError(t, err)

	att := attachment.New("notes.txt", "meeting notes", attachment.TextContent("remember"))
	stored, err := client.AddAttachment(ctx, id, att, false)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", stored)

	renamed, err := client.AddAttachment(ctx, id,
		attachment.New("notes.txt", "second take", attachment.TextContent("again")), false)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt.2", renamed)

	content, err := client.GetAttachment(ctx, id, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("remember"), content)

	attachments, err := client.GetAllTicketAttachments(ctx, id, true)
	require.NoError(t, err)
	require.Len(t, attachments, 2)
	assert.Equal(t, "notes.txt", attachments[0].FileName)
	assert.Equal(t, "notes.txt.2", attachments[1].FileName)
	assert.Equal(t, []byte("again"), attachments[1].Content.Bytes())

	ok, err := client.DeleteAttachment(ctx, id, "notes.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = client.GetAttachment(ctx, id, "notes.txt")
	require.Error(t, err)
	assert.True(t, errors.IsRemoteFault(err))
}

func TestPermissionsSurfaceThroughClient(t *testing.T) {
	cfg := &config.TracConfig{
		Realm:     "company.com/trac/login/xmlrpc",
		Username:  fake.GetOnlyUser,
		Password:  "pw",
		LoadDummy: true,
	}
	client, err := New(cfg, logger.NewNop())
	require.NoError(t, err)

	_, err = client.CreateTicket(context.Background(), ticket.ForCreation("s", "d"), false)
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorizedError(err))
}

func strPtrT(s string) *string {
	return &s
}
