package services

import (
	"context"

	"fdo-conformance-client/httputil"
	"fdo-conformance-client/routes"

	"github.com/opentracing/opentracing-go"
)

// The RVTests interface covers the rendezvous (TO0 and TO1) conformance endpoints
type RVTests interface {
	GetRVTsList(ctx context.Context) ([]RVTItem, error)
	GetRVTRuns(ctx context.Context, protocol ToProtocol) ([]InstInfo, error)
	AddNewRv(ctx context.Context, url string) ([]RVTItem, error)
	ExecuteRvTests(ctx context.Context, id string) ([]RVTItem, error)
	RemoveTestRun(ctx context.Context, ref TestRunReference) ([]RVTItem, error)
}

type RVTestsImpl struct {
	*Client
}

func (rvt *RVTestsImpl) GetRVTsList(ctx context.Context) ([]RVTItem, error) {
	var items []RVTItem

	span, ctx := opentracing.StartSpanFromContext(ctx, "RVTests.GetRVTsList()")
	defer span.Finish()

	err := rvt.callField(ctx, routes.RVTTestRuns, nil, nil, httputil.FieldRVTs, &items)

	return items, err
}

// GetRVTRuns returns the instance of every rendezvous test for one protocol,
// in list order
func (rvt *RVTestsImpl) GetRVTRuns(ctx context.Context, protocol ToProtocol) ([]InstInfo, error) {
	if _, ok := (RVTItem{}).Inst(protocol); !ok {
		return nil, rvt.reject(routes.RVTTestRuns, &ValidationError{
			Message: MsgMissingRequiredField,
			Fields:  []string{routes.VarToProtocol},
		})
	}

	items, err := rvt.GetRVTsList(ctx)

	if err != nil {
		return nil, err
	}

	insts := make([]InstInfo, 0, len(items))

	for _, item := range items {
		inst, _ := item.Inst(protocol)
		insts = append(insts, inst)
	}

	return insts, nil
}

func (rvt *RVTestsImpl) AddNewRv(ctx context.Context, url string) ([]RVTItem, error) {
	var items []RVTItem

	span, ctx := opentracing.StartSpanFromContext(ctx, "RVTests.AddNewRv()")
	defer span.Finish()

	if err := requireValue("url", url); err != nil {
		return nil, rvt.reject(routes.RVTCreate, err)
	}

	err := rvt.callField(ctx, routes.RVTCreate, nil, struct {
		URL string `json:"url"`
	}{url}, httputil.FieldRVTs, &items)

	return items, err
}

func (rvt *RVTestsImpl) ExecuteRvTests(ctx context.Context, id string) ([]RVTItem, error) {
	var items []RVTItem

	span, ctx := opentracing.StartSpanFromContext(ctx, "RVTests.ExecuteRvTests()")
	defer span.Finish()

	if err := requireValue(routes.VarID, id); err != nil {
		return nil, rvt.reject(routes.RVTExecute, err)
	}

	err := rvt.callField(ctx, routes.RVTExecute, nil, entityReference{id}, httputil.FieldRVTs, &items)

	return items, err
}

func (rvt *RVTestsImpl) RemoveTestRun(ctx context.Context, ref TestRunReference) ([]RVTItem, error) {
	var items []RVTItem

	span, ctx := opentracing.StartSpanFromContext(ctx, "RVTests.RemoveTestRun()")
	defer span.Finish()

	err := rvt.callField(ctx, routes.RVTDeleteTestRun, []string{
		routes.VarID, ref.ID,
		routes.VarTestRunID, ref.TestRunID,
	}, ref, httputil.FieldRVTs, &items)

	return items, err
}
