package worker

import (
	"github.com/anyswap/XRPL-Custody/log"
)

func logWorker(job, subject string, context ...interface{}) {
	log.Info("["+job+"] "+subject, context...)
}

func logWorkerError(job, subject string, err error, context ...interface{}) {
	fields := []interface{}{"err", err}
	fields = append(fields, context...)
	log.Error("["+job+"] "+subject, fields...)
}

func logWorkerTrace(job, subject string, context ...interface{}) {
	log.Trace("["+job+"] "+subject, context...)
}
