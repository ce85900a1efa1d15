package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	// Restaurant
	&DiningTable{},
	&MenuItem{},
	&Order{},
	&OrderItem{},
	&Event{},
	&Popup{},
}
