package services

import (
	"context"

	"fdo-conformance-client/httputil"
	"fdo-conformance-client/routes"

	"github.com/opentracing/opentracing-go"
)

// The DeviceTests interface covers the device conformance endpoints. The
// backend listens for the device and records one run per protocol session.
type DeviceTests interface {
	GetDeviceTestRunsList(ctx context.Context) ([]DeviceItem, error)
	AddNewDevice(ctx context.Context, device Device) ([]DeviceItem, error)
	AddNewTestRun(ctx context.Context, protocol ToProtocol, id string) ([]DeviceItem, error)
	RemoveTestRun(ctx context.Context, protocol ToProtocol, ref TestRunReference) ([]DeviceItem, error)
}

type DeviceTestsImpl struct {
	*Client
}

func (dt *DeviceTestsImpl) GetDeviceTestRunsList(ctx context.Context) ([]DeviceItem, error) {
	var entries []DeviceItem

	span, ctx := opentracing.StartSpanFromContext(ctx, "DeviceTests.GetDeviceTestRunsList()")
	defer span.Finish()

	err := dt.callField(ctx, routes.DeviceTestRuns, nil, nil, httputil.FieldEntries, &entries)

	return entries, err
}

// AddNewDevice registers a device from its name and voucher and returns the
// updated device list
func (dt *DeviceTestsImpl) AddNewDevice(ctx context.Context, device Device) ([]DeviceItem, error) {
	var entries []DeviceItem

	span, ctx := opentracing.StartSpanFromContext(ctx, "DeviceTests.AddNewDevice()")
	defer span.Finish()

	if err := validateArgs(device, MsgMissingRequiredField); err != nil {
		return nil, dt.reject(routes.DeviceCreate, err)
	}

	err := dt.callField(ctx, routes.DeviceCreate, nil, device, httputil.FieldEntries, &entries)

	return entries, err
}

// AddNewTestRun starts listening for the device on the given protocol
func (dt *DeviceTestsImpl) AddNewTestRun(ctx context.Context, protocol ToProtocol, id string) ([]DeviceItem, error) {
	var entries []DeviceItem

	span, ctx := opentracing.StartSpanFromContext(ctx, "DeviceTests.AddNewTestRun()")
	defer span.Finish()

	span.SetTag("protocol", protocol.String())

	err := dt.callField(ctx, routes.DeviceStartTestRun, []string{
		routes.VarToProtocol, protocol.String(),
		routes.VarID, id,
	}, nil, httputil.FieldRVTs, &entries)

	return entries, err
}

func (dt *DeviceTestsImpl) RemoveTestRun(ctx context.Context, protocol ToProtocol, ref TestRunReference) ([]DeviceItem, error) {
	var entries []DeviceItem

	span, ctx := opentracing.StartSpanFromContext(ctx, "DeviceTests.RemoveTestRun()")
	defer span.Finish()

	err := dt.callField(ctx, routes.DeviceDeleteTestRun, []string{
		routes.VarToProtocol, protocol.String(),
		routes.VarID, ref.ID,
		routes.VarTestRunID, ref.TestRunID,
	}, nil, httputil.FieldRVTs, &entries)

	return entries, err
}
