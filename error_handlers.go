package workerpool

import (
	lg "github.com/Andrej220/go-utils/zlog"
)

// reportInternalError reports an internal pool error.
//
// Internal errors are non-item failures such as a worker
// that could not start or work discarded at shutdown.
// They are always logged; the hook is optional.
func (p *Pool) reportInternalError(e error) {
	lg.FromContext(p.opts.Ctx).Error("pool internal error", lg.Any("error", e))
	if p.opts.OnInternalError != nil {
		p.opts.OnInternalError(e)
	}
}

// reportJobError reports an item failure produced by panic recovery.
//
// Item failures do not stop pool execution and never reach
// the submitter.
func (p *Pool) reportJobError(err error) {
	lg.FromContext(p.opts.Ctx).Error("work item panicked", lg.Any("error", err))
	if p.opts.OnJobError != nil {
		p.opts.OnJobError(err)
	}
}
