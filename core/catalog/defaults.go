// Package catalog - Built-in instance set
// General purpose, compute optimized, memory optimized and burstable
// families across two generations. List prices are Linux on-demand
// baselines used for ranking only.
package catalog

import "github.com/shopspring/decimal"

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func registerDefaults(c *Catalog) {
	// General purpose - m5
	c.Register(InstanceSpec{Name: "m5.large", Family: "m5", Generation: 5, VCPU: 2, MemoryGB: 8, ListPrice: price("0.096")})
	c.Register(InstanceSpec{Name: "m5.xlarge", Family: "m5", Generation: 5, VCPU: 4, MemoryGB: 16, ListPrice: price("0.192")})
	c.Register(InstanceSpec{Name: "m5.2xlarge", Family: "m5", Generation: 5, VCPU: 8, MemoryGB: 32, ListPrice: price("0.384")})
	c.Register(InstanceSpec{Name: "m5.4xlarge", Family: "m5", Generation: 5, VCPU: 16, MemoryGB: 64, ListPrice: price("0.768")})
	c.Register(InstanceSpec{Name: "m5.8xlarge", Family: "m5", Generation: 5, VCPU: 32, MemoryGB: 128, ListPrice: price("1.536")})
	c.Register(InstanceSpec{Name: "m5.12xlarge", Family: "m5", Generation: 5, VCPU: 48, MemoryGB: 192, ListPrice: price("2.304")})

	// General purpose - m6i
	c.Register(InstanceSpec{Name: "m6i.large", Family: "m6i", Generation: 6, VCPU: 2, MemoryGB: 8, ListPrice: price("0.096")})
	c.Register(InstanceSpec{Name: "m6i.xlarge", Family: "m6i", Generation: 6, VCPU: 4, MemoryGB: 16, ListPrice: price("0.192")})
	c.Register(InstanceSpec{Name: "m6i.2xlarge", Family: "m6i", Generation: 6, VCPU: 8, MemoryGB: 32, ListPrice: price("0.384")})
	c.Register(InstanceSpec{Name: "m6i.4xlarge", Family: "m6i", Generation: 6, VCPU: 16, MemoryGB: 64, ListPrice: price("0.768")})
	c.Register(InstanceSpec{Name: "m6i.8xlarge", Family: "m6i", Generation: 6, VCPU: 32, MemoryGB: 128, ListPrice: price("1.536")})

	// Compute optimized - c5
	c.Register(InstanceSpec{Name: "c5.large", Family: "c5", Generation: 5, VCPU: 2, MemoryGB: 4, ListPrice: price("0.085")})
	c.Register(InstanceSpec{Name: "c5.xlarge", Family: "c5", Generation: 5, VCPU: 4, MemoryGB: 8, ListPrice: price("0.17")})
	c.Register(InstanceSpec{Name: "c5.2xlarge", Family: "c5", Generation: 5, VCPU: 8, MemoryGB: 16, ListPrice: price("0.34")})
	c.Register(InstanceSpec{Name: "c5.4xlarge", Family: "c5", Generation: 5, VCPU: 16, MemoryGB: 32, ListPrice: price("0.68")})
	c.Register(InstanceSpec{Name: "c5.9xlarge", Family: "c5", Generation: 5, VCPU: 36, MemoryGB: 72, ListPrice: price("1.53")})

	// Compute optimized - c6i
	c.Register(InstanceSpec{Name: "c6i.large", Family: "c6i", Generation: 6, VCPU: 2, MemoryGB: 4, ListPrice: price("0.085")})
	c.Register(InstanceSpec{Name: "c6i.xlarge", Family: "c6i", Generation: 6, VCPU: 4, MemoryGB: 8, ListPrice: price("0.17")})
	c.Register(InstanceSpec{Name: "c6i.2xlarge", Family: "c6i", Generation: 6, VCPU: 8, MemoryGB: 16, ListPrice: price("0.34")})
	c.Register(InstanceSpec{Name: "c6i.4xlarge", Family: "c6i", Generation: 6, VCPU: 16, MemoryGB: 32, ListPrice: price("0.68")})

	// Memory optimized - r5
	c.Register(InstanceSpec{Name: "r5.large", Family: "r5", Generation: 5, VCPU: 2, MemoryGB: 16, ListPrice: price("0.126")})
	c.Register(InstanceSpec{Name: "r5.xlarge", Family: "r5", Generation: 5, VCPU: 4, MemoryGB: 32, ListPrice: price("0.252")})
	c.Register(InstanceSpec{Name: "r5.2xlarge", Family: "r5", Generation: 5, VCPU: 8, MemoryGB: 64, ListPrice: price("0.504")})
	c.Register(InstanceSpec{Name: "r5.4xlarge", Family: "r5", Generation: 5, VCPU: 16, MemoryGB: 128, ListPrice: price("1.008")})
	c.Register(InstanceSpec{Name: "r5.8xlarge", Family: "r5", Generation: 5, VCPU: 32, MemoryGB: 256, ListPrice: price("2.016")})

	// Memory optimized - r6i
	c.Register(InstanceSpec{Name: "r6i.large", Family: "r6i", Generation: 6, VCPU: 2, MemoryGB: 16, ListPrice: price("0.126")})
	c.Register(InstanceSpec{Name: "r6i.xlarge", Family: "r6i", Generation: 6, VCPU: 4, MemoryGB: 32, ListPrice: price("0.252")})
	c.Register(InstanceSpec{Name: "r6i.2xlarge", Family: "r6i", Generation: 6, VCPU: 8, MemoryGB: 64, ListPrice: price("0.504")})
	c.Register(InstanceSpec{Name: "r6i.4xlarge", Family: "r6i", Generation: 6, VCPU: 16, MemoryGB: 128, ListPrice: price("1.008")})

	// Burstable - t3
	c.Register(InstanceSpec{Name: "t3.micro", Family: "t3", Generation: 3, VCPU: 2, MemoryGB: 1, ListPrice: price("0.0104")})
	c.Register(InstanceSpec{Name: "t3.small", Family: "t3", Generation: 3, VCPU: 2, MemoryGB: 2, ListPrice: price("0.0208")})
	c.Register(InstanceSpec{Name: "t3.medium", Family: "t3", Generation: 3, VCPU: 2, MemoryGB: 4, ListPrice: price("0.0416")})
	c.Register(InstanceSpec{Name: "t3.large", Family: "t3", Generation: 3, VCPU: 2, MemoryGB: 8, ListPrice: price("0.0832")})
	c.Register(InstanceSpec{Name: "t3.xlarge", Family: "t3", Generation: 3, VCPU: 4, MemoryGB: 16, ListPrice: price("0.1664")})
	c.Register(InstanceSpec{Name: "t3.2xlarge", Family: "t3", Generation: 3, VCPU: 8, MemoryGB: 32, ListPrice: price("0.3328")})
}
