package components

import (
	"github.com/JeanRibes/ohm-surface/modes"
	. "github.com/JeanRibes/ohm-surface/shared"

	charmlog "github.com/charmbracelet/log"
)

const (
	RoleParameters = "parameter_controls"
	RoleLock       = "lock_button"
	RolePrevBank   = "prev_bank_button"
	RoleNextBank   = "next_bank_button"
)

// Device maps the parameter controls onto banks of the selected device's
// parameters. A locked device keeps the controls when the host selection
// changes.
type Device struct {
	Base
	banks  int
	bank   int
	locked bool
	params map[int]int
}

func NewDevice(banks int, emit Emitter, logger *charmlog.Logger) *Device {
	if banks < 1 {
		banks = 1
	}
	return &Device{
		Base:   NewBase("device", emit, logger),
		banks:  banks,
		params: map[int]int{},
	}
}

func (d *Device) Bank() int    { return d.bank }
func (d *Device) Locked() bool { return d.locked }

func (d *Device) Bind(b *modes.Bound) {
	d.Attach(b)
	d.refresh()
}

func (d *Device) Unbind() {
	d.Detach()
}

func (d *Device) size() int {
	return len(d.Controls(RoleParameters))
}

func (d *Device) HandleInput(role string, index int, value int) {
	if !d.Active() {
		return
	}
	switch role {
	case RoleParameters:
		param := d.bank*d.size() + index
		d.params[param] = value
		d.Feedback(at(d.Controls(RoleParameters), index), value)
		d.Send(Message{Type: DeviceParameter, Number: param, Float: unit(value)})
	case RoleLock:
		if !pressed(value) {
			return
		}
		d.locked = !d.locked
		d.Send(Message{Type: DeviceLock, Boolean: d.locked})
		d.refresh()
	case RolePrevBank:
		if pressed(value) && d.bank > 0 {
			d.setBank(d.bank - 1)
		}
	case RoleNextBank:
		if pressed(value) && d.bank < d.banks-1 {
			d.setBank(d.bank + 1)
		}
	}
}

func (d *Device) setBank(bank int) {
	d.bank = bank
	d.Send(Message{Type: DeviceBank, Number: bank})
	d.refresh()
}

func (d *Device) refresh() {
	n := d.size()
	for i, c := range d.Controls(RoleParameters) {
		d.Feedback(c, d.params[d.bank*n+i])
	}
	d.Light(d.Control(RoleLock), d.locked)
	d.Light(d.Control(RolePrevBank), d.bank > 0)
	d.Light(d.Control(RoleNextBank), d.bank < d.banks-1)
}
