package trac

import (
	"github.com/orris-inc/tracgate/internal/infrastructure/fake"
	"github.com/orris-inc/tracgate/internal/infrastructure/rpc"
	"github.com/orris-inc/tracgate/internal/shared/config"
	"github.com/orris-inc/tracgate/internal/shared/logger"
)

// New builds a client from the connection configuration. With
// load_dummy set, the client runs against the in-memory fake endpoint
// instead of opening a live XML-RPC channel; everything above the
// channel behaves the same either way.
func New(cfg *config.TracConfig, log logger.Interface) (*Client, error) {
	var caller rpc.Caller

	if cfg.LoadDummy {
		server, err := fake.NewServer(cfg.URL(), log)
		if err != nil {
			return nil, err
		}
		caller = server
	} else {
		live, err := rpc.NewXMLRPCCaller(cfg.URL(), log)
		if err != nil {
			return nil, err
		}
		caller = live
	}

	return NewClient(caller, log), nil
}
