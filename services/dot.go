package services

import (
	"context"

	"fdo-conformance-client/httputil"
	"fdo-conformance-client/routes"

	"github.com/opentracing/opentracing-go"
)

// The DOTests interface covers the device onboarding (TO2) conformance
// endpoints. The backend acts as a device against the owner server at URL.
type DOTests interface {
	GetDOTsList(ctx context.Context) ([]DOTItem, error)
	AddNewDo(ctx context.Context, url string, privKey string) ([]DOTItem, error)
	ExecuteDoTests(ctx context.Context, id string) ([]DOTItem, error)
	RemoveTestRun(ctx context.Context, ref TestRunReference) ([]DOTItem, error)
	GetVouchers(ctx context.Context, id string) ([]byte, error)
}

type DOTestsImpl struct {
	*Client
}

type entityReference struct {
	ID string `json:"id"`
}

func (dot *DOTestsImpl) GetDOTsList(ctx context.Context) ([]DOTItem, error) {
	var entries []DOTItem

	span, ctx := opentracing.StartSpanFromContext(ctx, "DOTests.GetDOTsList()")
	defer span.Finish()

	err := dot.callField(ctx, routes.DOTTestRuns, nil, nil, httputil.FieldEntries, &entries)

	return entries, err
}

// AddNewDo registers an owner server and the private key matching the
// vouchers it will be given
func (dot *DOTestsImpl) AddNewDo(ctx context.Context, url string, privKey string) ([]DOTItem, error) {
	var entries []DOTItem

	span, ctx := opentracing.StartSpanFromContext(ctx, "DOTests.AddNewDo()")
	defer span.Finish()

	body := struct {
		URL        string `json:"url" validate:"required"`
		PrivateKey string `json:"priv_key" validate:"required"`
	}{url, privKey}

	if err := validateArgs(body, MsgMissingRequiredField); err != nil {
		return nil, dot.reject(routes.DOTCreate, err)
	}

	err := dot.callField(ctx, routes.DOTCreate, nil, body, httputil.FieldRVTs, &entries)

	return entries, err
}

func (dot *DOTestsImpl) ExecuteDoTests(ctx context.Context, id string) ([]DOTItem, error) {
	var entries []DOTItem

	span, ctx := opentracing.StartSpanFromContext(ctx, "DOTests.ExecuteDoTests()")
	defer span.Finish()

	if err := requireValue(routes.VarID, id); err != nil {
		return nil, dot.reject(routes.DOTExecute, err)
	}

	err := dot.callField(ctx, routes.DOTExecute, nil, entityReference{id}, httputil.FieldRVTs, &entries)

	return entries, err
}

func (dot *DOTestsImpl) RemoveTestRun(ctx context.Context, ref TestRunReference) ([]DOTItem, error) {
	var entries []DOTItem

	span, ctx := opentracing.StartSpanFromContext(ctx, "DOTests.RemoveTestRun()")
	defer span.Finish()

	err := dot.callField(ctx, routes.DOTDeleteTestRun, []string{
		routes.VarID, ref.ID,
		routes.VarTestRunID, ref.TestRunID,
	}, ref, httputil.FieldRVTs, &entries)

	return entries, err
}

// GetVouchers downloads the zip archive of vouchers generated for the owner
// server under test
func (dot *DOTestsImpl) GetVouchers(ctx context.Context, id string) ([]byte, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "DOTests.GetVouchers()")
	defer span.Finish()

	return dot.fetch(ctx, routes.DOTVouchers, []string{routes.VarID, id})
}
