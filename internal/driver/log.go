package driver

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("coolc.driver")
