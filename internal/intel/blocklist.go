// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package intel

// Built-in threat intelligence. This is the single authoritative list; operator
// files only ever add to it (see LoadFile).

var defaultAddresses = []string{
	"102.165.16.161",
	"104.129.24.115",
	"104.129.24.124",
	"104.223.91.28",
	"138.199.34.144",
	"146.70.117.210",
	"146.70.117.56",
	"146.70.119.24",
	"146.70.124.216",
	"146.70.165.227",
	"146.70.166.176",
	"146.70.171.112",
	"146.70.171.99",
	"154.47.30.137",
	"154.47.30.150",
	"162.33.177.32",
	"169.150.201.25",
	"169.150.203.22",
	"169.150.223.208",
	"173.44.63.112",
	"176.123.3.132",
	"176.123.6.193",
	"176.220.186.152",
	"184.147.100.29",
	"185.156.46.144",
	"185.156.46.163",
	"185.204.1.178",
	"185.213.155.241",
	"185.248.85.14",
	"185.248.85.59",
	"192.252.212.60",
	"193.32.126.233",
	"194.230.144.126",
	"194.230.144.50",
	"194.230.145.67",
	"194.230.145.76",
	"194.230.147.127",
	"194.230.148.99",
	"194.230.158.107",
	"194.230.158.178",
	"194.230.160.237",
	"194.230.160.5",
	"198.44.129.82",
	"198.44.136.56",
	"198.44.136.82",
	"198.54.130.153",
	"198.54.131.152",
	"198.54.135.35",
	"198.54.135.67",
	"198.54.135.99",
	"204.152.216.105",
	"206.217.205.49",
	"206.217.206.108",
	"37.19.210.21",
	"37.19.210.34",
	"45.134.140.144",
	"45.134.142.200",
	"45.155.91.99",
	"45.86.221.146",
	"5.47.87.202",
	"66.115.189.247",
	"66.63.167.147",
	"79.127.217.44",
	"87.249.134.11",
	"93.115.0.49",
	"96.44.191.140",
}

var defaultRules = []Rule{
	{"APPLICATION": "rapeflake"},
	{"APPLICATION": "DBeaver_DBeaverUltimate", "OS": "Windows Server 2022"},
}
