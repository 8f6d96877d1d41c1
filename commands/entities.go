package commands

import (
	"context"
	"io/ioutil"
	"strconv"

	"fdo-conformance-client/services"

	"github.com/pkg/errors"
)

type deviceListCommand struct {
	rt *Runtime
}

func (c *deviceListCommand) Execute(args []string) error {
	entries, err := c.rt.API.DeviceTests.GetDeviceTestRunsList(context.Background())

	if err != nil {
		return err
	}

	return c.rt.printJSON(entries)
}

type deviceCreateCommand struct {
	rt          *Runtime
	Name        string `long:"name" description:"Device name"`
	VoucherFile string `long:"voucher-file" description:"PEM file holding the ownership voucher and the device private key"`
}

func (c *deviceCreateCommand) Execute(args []string) error {
	voucher, err := readOptionalFile(c.VoucherFile)

	if err != nil {
		return err
	}

	entries, err := c.rt.API.DeviceTests.AddNewDevice(context.Background(), services.Device{
		Name:    c.Name,
		Voucher: voucher,
	})

	if err != nil {
		return err
	}

	return c.rt.printJSON(entries)
}

type deviceRunCommand struct {
	rt       *Runtime
	Protocol int    `long:"protocol" description:"Transfer ownership protocol" choice:"0" choice:"1" choice:"2" default:"0"`
	ID       string `long:"id" description:"Device id"`
}

func (c *deviceRunCommand) Execute(args []string) error {
	entries, err := c.rt.API.DeviceTests.AddNewTestRun(context.Background(), services.ToProtocol(c.Protocol), c.ID)

	if err != nil {
		return err
	}

	return c.rt.printJSON(entries)
}

type deviceRemoveRunCommand struct {
	rt       *Runtime
	Protocol int    `long:"protocol" description:"Transfer ownership protocol" choice:"0" choice:"1" choice:"2" default:"0"`
	ID       string `long:"id" description:"Device id"`
	Run      string `long:"run" description:"Test run id"`
}

func (c *deviceRemoveRunCommand) Execute(args []string) error {
	entries, err := c.rt.API.DeviceTests.RemoveTestRun(context.Background(), services.ToProtocol(c.Protocol), services.TestRunReference{
		ID:        c.ID,
		TestRunID: c.Run,
	})

	if err != nil {
		return err
	}

	return c.rt.printJSON(entries)
}

type dotListCommand struct {
	rt *Runtime
}

func (c *dotListCommand) Execute(args []string) error {
	entries, err := c.rt.API.DOTests.GetDOTsList(context.Background())

	if err != nil {
		return err
	}

	return c.rt.printJSON(entries)
}

type dotCreateCommand struct {
	rt      *Runtime
	URL     string `long:"url" description:"Owner server URL"`
	KeyFile string `long:"key-file" description:"PEM file holding the owner private key"`
}

func (c *dotCreateCommand) Execute(args []string) error {
	privKey, err := readOptionalFile(c.KeyFile)

	if err != nil {
		return err
	}

	entries, err := c.rt.API.DOTests.AddNewDo(context.Background(), c.URL, privKey)

	if err != nil {
		return err
	}

	return c.rt.printJSON(entries)
}

type dotExecuteCommand struct {
	rt *Runtime
	ID string `long:"id" description:"Onboarding test id"`
}

func (c *dotExecuteCommand) Execute(args []string) error {
	entries, err := c.rt.API.DOTests.ExecuteDoTests(context.Background(), c.ID)

	if err != nil {
		return err
	}

	return c.rt.printJSON(entries)
}

type dotRemoveRunCommand struct {
	rt  *Runtime
	ID  string `long:"id" description:"Onboarding test id"`
	Run string `long:"run" description:"Test run id"`
}

func (c *dotRemoveRunCommand) Execute(args []string) error {
	entries, err := c.rt.API.DOTests.RemoveTestRun(context.Background(), services.TestRunReference{
		ID:        c.ID,
		TestRunID: c.Run,
	})

	if err != nil {
		return err
	}

	return c.rt.printJSON(entries)
}

type dotVouchersCommand struct {
	rt     *Runtime
	ID     string `long:"id" description:"Onboarding test id"`
	Output string `long:"output" short:"o" description:"Write the zip archive to this file instead of stdout"`
}

func (c *dotVouchersCommand) Execute(args []string) error {
	data, err := c.rt.API.DOTests.GetVouchers(context.Background(), c.ID)

	if err != nil {
		return err
	}

	if c.Output == "" {
		_, err = c.rt.Out.Write(data)

		return err
	}

	if err := ioutil.WriteFile(c.Output, data, 0644); err != nil {
		return errors.Wrapf(err, "write %s", c.Output)
	}

	return c.rt.printJSON(map[string]interface{}{"file": c.Output, "bytes": len(data)})
}

type rvtListCommand struct {
	rt       *Runtime
	Protocol string `long:"protocol" description:"Only show the instances of this protocol" choice:"0" choice:"1"`
}

func (c *rvtListCommand) Execute(args []string) error {
	if c.Protocol == "" {
		items, err := c.rt.API.RVTests.GetRVTsList(context.Background())

		if err != nil {
			return err
		}

		return c.rt.printJSON(items)
	}

	protocol, err := strconv.Atoi(c.Protocol)

	if err != nil {
		return errors.Wrap(err, "parse protocol")
	}

	insts, err := c.rt.API.RVTests.GetRVTRuns(context.Background(), services.ToProtocol(protocol))

	if err != nil {
		return err
	}

	return c.rt.printJSON(insts)
}

type rvtCreateCommand struct {
	rt  *Runtime
	URL string `long:"url" description:"Rendezvous server URL"`
}

func (c *rvtCreateCommand) Execute(args []string) error {
	items, err := c.rt.API.RVTests.AddNewRv(context.Background(), c.URL)

	if err != nil {
		return err
	}

	return c.rt.printJSON(items)
}

type rvtExecuteCommand struct {
	rt *Runtime
	ID string `long:"id" description:"Rendezvous test id"`
}

func (c *rvtExecuteCommand) Execute(args []string) error {
	items, err := c.rt.API.RVTests.ExecuteRvTests(context.Background(), c.ID)

	if err != nil {
		return err
	}

	return c.rt.printJSON(items)
}

type rvtRemoveRunCommand struct {
	rt  *Runtime
	ID  string `long:"id" description:"Rendezvous test id"`
	Run string `long:"run" description:"Test run id"`
}

func (c *rvtRemoveRunCommand) Execute(args []string) error {
	items, err := c.rt.API.RVTests.RemoveTestRun(context.Background(), services.TestRunReference{
		ID:        c.ID,
		TestRunID: c.Run,
	})

	if err != nil {
		return err
	}

	return c.rt.printJSON(items)
}

// readOptionalFile returns the file content, or "" when no file was given so
// that the client reports the missing field
func readOptionalFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := ioutil.ReadFile(path)

	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}

	return string(data), nil
}

func entityCommands(rt *Runtime) []command {
	return []command{
		{"device-list", "List devices and their test runs", "", &deviceListCommand{rt: rt}},
		{"device-create", "Register a device from its voucher", "", &deviceCreateCommand{rt: rt}},
		{"device-run", "Start a device test run", "", &deviceRunCommand{rt: rt}},
		{"device-remove-run", "Delete a device test run", "", &deviceRemoveRunCommand{rt: rt}},
		{"dot-list", "List device onboarding tests", "", &dotListCommand{rt: rt}},
		{"dot-create", "Add an owner server to test", "", &dotCreateCommand{rt: rt}},
		{"dot-execute", "Run the onboarding tests of an owner server", "", &dotExecuteCommand{rt: rt}},
		{"dot-remove-run", "Delete an onboarding test run", "", &dotRemoveRunCommand{rt: rt}},
		{"dot-vouchers", "Download the vouchers generated for an owner server", "", &dotVouchersCommand{rt: rt}},
		{"rvt-list", "List rendezvous tests", "", &rvtListCommand{rt: rt}},
		{"rvt-create", "Add a rendezvous server to test", "", &rvtCreateCommand{rt: rt}},
		{"rvt-execute", "Run the rendezvous tests of a server", "", &rvtExecuteCommand{rt: rt}},
		{"rvt-remove-run", "Delete a rendezvous test run", "", &rvtRemoveRunCommand{rt: rt}},
	}
}
