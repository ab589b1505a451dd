package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is the shape of a configuration file. Every field is optional;
// unknown attributes and blocks are kept in Remain and ignored.
//
// The dev server block is also accepted as devServer; dev_server wins when a
// file has both.
type fileRoot struct {
	Output         *outputBlock    `hcl:"output,block"`
	Assets         *string         `hcl:"assets,optional"`
	DevServer      *devServerBlock `hcl:"dev_server,block"`
	DevServerCamel *devServerBlock `hcl:"devServer,block"`
	Remain         hcl.Body        `hcl:",remain"`
}

type outputBlock struct {
	Dir    *string `hcl:"dir,optional"`
	HTML   *string `hcl:"html,optional"`
	CSS    *string `hcl:"css,optional"`
	JS     *string `hcl:"js,optional"`
	Assets *string `hcl:"assets,optional"`
}

type devServerBlock struct {
	Port *int `hcl:"port,optional"`
}
