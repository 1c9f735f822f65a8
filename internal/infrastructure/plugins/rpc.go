package plugins

import (
	"context"
	"fmt"
	"net/rpc"

	"github.com/hashicorp/go-plugin"

	"components.dev/calc/internal/core/ports"
)

// OperandArgs carries both operands over net/rpc
type OperandArgs struct {
	X uint32
	Y uint32
}

// call issues an RPC and stops waiting once ctx is done
func call(ctx context.Context, client *rpc.Client, method string, args interface{}, reply interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pending := client.Go(method, args, reply, make(chan *rpc.Call, 1))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case done := <-pending.Done:
		return done.Error
	}
}

// AdderRPC is the host-side client for an adder provider
type AdderRPC struct {
	client *rpc.Client
}

func (a *AdderRPC) Add(ctx context.Context, x, y uint32) (uint32, error) {
	var result uint32
	if err := call(ctx, a.client, "Plugin.Add", &OperandArgs{X: x, Y: y}, &result); err != nil {
		return 0, &ports.ProviderError{Capability: ports.CapabilityAdder, Kind: "plugin", Err: err}
	}
	return result, nil
}

// AdderRPCServer runs inside the provider process
type AdderRPCServer struct {
	Impl ports.Adder
}

func (s *AdderRPCServer) Add(args *OperandArgs, result *uint32) error {
	sum, err := s.Impl.Add(context.Background(), args.X, args.Y)
	if err != nil {
		return err
	}
	*result = sum
	return nil
}

// AdderPlugin is the go-plugin definition of the adder capability
type AdderPlugin struct {
	Impl ports.Adder
}

func (p *AdderPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	if p.Impl == nil {
		return nil, fmt.Errorf("adder plugin has no implementation")
	}
	return &AdderRPCServer{Impl: p.Impl}, nil
}

func (p *AdderPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &AdderRPC{client: c}, nil
}

// SubtractorRPC is the host-side client for a subtractor provider
type SubtractorRPC struct {
	client *rpc.Client
}

func (s *SubtractorRPC) Subtract(ctx context.Context, x, y uint32) (uint32, error) {
	var result uint32
	if err := call(ctx, s.client, "Plugin.Subtract", &OperandArgs{X: x, Y: y}, &result); err != nil {
		return 0, &ports.ProviderError{Capability: ports.CapabilitySubtractor, Kind: "plugin", Err: err}
	}
	return result, nil
}

// SubtractorRPCServer runs inside the provider process
type SubtractorRPCServer struct {
	Impl ports.Subtractor
}

func (s *SubtractorRPCServer) Subtract(args *OperandArgs, result *uint32) error {
	diff, err := s.Impl.Subtract(context.Background(), args.X, args.Y)
	if err != nil {
		return err
	}
	*result = diff
	return nil
}

// SubtractorPlugin is the go-plugin definition of the subtractor capability
type SubtractorPlugin struct {
	Impl ports.Subtractor
}

func (p *SubtractorPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	if p.Impl == nil {
		return nil, fmt.Errorf("subtractor plugin has no implementation")
	}
	return &SubtractorRPCServer{Impl: p.Impl}, nil
}

func (p *SubtractorPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &SubtractorRPC{client: c}, nil
}
