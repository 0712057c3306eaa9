package command

const (
	JSONOutputFlag   = "json"
	PprofFlag        = "pprof"
	PprofAddressFlag = "pprof-address"
)

const (
	DefaultPprofAddress = "127.0.0.1:6060"
)
