//go:build !linux

package workerpool

func PinToCPU(cpu int) error {
	return ErrPinUnsupported
}
