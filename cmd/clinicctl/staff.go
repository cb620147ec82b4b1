package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/jrsteele09/clinic-gateway/directory"
	"github.com/jrsteele09/clinic-gateway/token/jwt"
)

func (a *app) staff(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("staff needs a subcommand: list, get, me, create, update or delete")
	}

	sub, args := args[0], args[1:]
	switch sub {
	case "list":
		fs := flag.NewFlagSet("staff list", flag.ContinueOnError)
		role := fs.String("role", "", "filter by role")
		if err := fs.Parse(args); err != nil {
			return err
		}
		staff, err := a.directory.ListStaff(ctx, jwt.Role(*role))
		if err != nil {
			return err
		}
		return a.print(staff)

	case "get":
		id, err := staffID(args)
		if err != nil {
			return err
		}
		member, err := a.directory.GetStaff(ctx, id)
		if err != nil {
			return err
		}
		return a.print(member)

	case "me":
		member, err := a.directory.Me(ctx)
		if err != nil {
			return err
		}
		return a.print(member)

	case "create":
		fs := flag.NewFlagSet("staff create", flag.ContinueOnError)
		var m directory.NewStaffMember
		role := fs.String("role", "", "doctor, nurse, lab, clinicadmin or systemadmin")
		fs.StringVar(&m.Name, "name", "", "full name")
		fs.StringVar(&m.Email, "email", "", "email")
		fs.StringVar(&m.Phone, "phone", "", "phone")
		fs.StringVar(&m.Department, "department", "", "department")
		fs.StringVar(&m.Password, "password", "", "initial password")
		if err := fs.Parse(args); err != nil {
			return err
		}
		m.Role = jwt.Role(*role)
		member, err := a.directory.CreateStaff(ctx, m)
		if err != nil {
			return err
		}
		return a.print(member)

	case "update":
		id, err := staffID(args)
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("staff update", flag.ContinueOnError)
		name := fs.String("name", "", "full name")
		email := fs.String("email", "", "email")
		phone := fs.String("phone", "", "phone")
		department := fs.String("department", "", "department")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		// Only flags given on the command line are sent
		var update directory.StaffUpdate
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				update.Name = name
			case "email":
				update.Email = email
			case "phone":
				update.Phone = phone
			case "department":
				update.Department = department
			}
		})
		member, err := a.directory.UpdateStaff(ctx, id, update)
		if err != nil {
			return err
		}
		return a.print(member)

	case "delete":
		id, err := staffID(args)
		if err != nil {
			return err
		}
		return a.directory.DeleteStaff(ctx, id)

	default:
		return fmt.Errorf("unknown staff subcommand %q", sub)
	}
}

func staffID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("a staff id is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid staff id %q: %w", args[0], err)
	}
	return id, nil
}
